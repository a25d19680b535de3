// Package collision defines the query primitive the traversal core consumes:
// capsule sweeps, rays and overlaps against tagged surfaces.
package collision

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/tag"
)

// Layer is a bit mask of collision layers.
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerClimbable
	LayerLadder
	LayerDestination
	LayerBlocking
)

// LayerAll matches every layer.
const LayerAll Layer = ^Layer(0)

// Overlaps reports whether l and mask share a bit.
func (l Layer) Overlaps(mask Layer) bool {
	return l&mask != 0
}

type SurfaceID uint32

// GrabPoint is a designer-placed hand hold on a surface. Rotation faces into
// the wall: its +Z axis is the direction the character looks while holding.
type GrabPoint struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Facing returns the direction the character faces while holding g.
func (g GrabPoint) Facing() mgl64.Vec3 {
	return common.FacingOf(g.Rotation)
}

// Surface is a collidable object. Worlds own surfaces; hits and ledges hold
// non-owning pointers to them.
type Surface struct {
	ID         SurfaceID
	Name       string
	Tags       tag.Set
	Layer      Layer
	Anchor     mgl64.Vec3
	GrabPoints []GrabPoint
}

// NearestGrabPoint returns the grab point closest to p.
func (s *Surface) NearestGrabPoint(p mgl64.Vec3) (GrabPoint, bool) {
	if s == nil || len(s.GrabPoints) == 0 {
		return GrabPoint{}, false
	}
	best := 0
	bestDist := s.GrabPoints[0].Position.Sub(p).LenSqr()
	for i := 1; i < len(s.GrabPoints); i++ {
		if d := s.GrabPoints[i].Position.Sub(p).LenSqr(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return s.GrabPoints[best], true
}

// Hit is a single sweep or ray intersection.
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Surface  *Surface
}

// Capsule is a segment A-B inflated by Radius. A sphere has A == B.
type Capsule struct {
	A      mgl64.Vec3
	B      mgl64.Vec3
	Radius float64
}

// CapsuleAt builds an upright capsule standing on feet.
func CapsuleAt(feet mgl64.Vec3, height, radius float64) Capsule {
	lo := radius
	hi := height - radius
	if hi < lo {
		hi = lo
	}
	return Capsule{
		A:      feet.Add(common.Up.Mul(lo)),
		B:      feet.Add(common.Up.Mul(hi)),
		Radius: radius,
	}
}

// Sphere builds a degenerate capsule.
func Sphere(center mgl64.Vec3, radius float64) Capsule {
	return Capsule{A: center, B: center, Radius: radius}
}

func (c Capsule) Translate(d mgl64.Vec3) Capsule {
	return Capsule{A: c.A.Add(d), B: c.B.Add(d), Radius: c.Radius}
}

// World is the physics query primitive. Sweeps ignore surfaces the shape
// already overlaps at its start and return hits sorted by distance.
type World interface {
	SweepCapsule(c Capsule, dir mgl64.Vec3, maxDistance float64, mask Layer) []Hit
	Raycast(origin, dir mgl64.Vec3, maxDistance float64, mask Layer) []Hit
	OverlapCapsule(c Capsule, mask Layer) []*Surface
}

// SortHits orders hits by distance, breaking ties by surface id.
func SortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return surfaceID(hits[i].Surface) < surfaceID(hits[j].Surface)
	})
}

// FirstOn returns the nearest hit on surface s.
func FirstOn(hits []Hit, s *Surface) (Hit, bool) {
	for _, h := range hits {
		if h.Surface == s {
			return h, true
		}
	}
	return Hit{}, false
}

// Without drops surfaces equal to skip.
func Without(surfaces []*Surface, skip *Surface) []*Surface {
	out := surfaces[:0:0]
	for _, s := range surfaces {
		if s != skip {
			out = append(out, s)
		}
	}
	return out
}

func surfaceID(s *Surface) SurfaceID {
	if s == nil {
		return 0
	}
	return s.ID
}
