// Package cpworld implements collision.World on top of a Chipmunk2D space for
// side-view levels. World X/Y map to the space's X/Y; the Z axis is dropped on
// the way in and copied from the query origin on the way out.
package cpworld

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/tag"
)

const epsilon = 1e-9

// BoxSpec describes an axis-aligned static box in the XY plane.
type BoxSpec struct {
	Name       string
	Tags       tag.Set
	Layer      collision.Layer
	Min        mgl64.Vec2
	Max        mgl64.Vec2
	Radius     float64
	GrabPoints []collision.GrabPoint
	Anchor     *mgl64.Vec3
}

// World owns a Chipmunk space holding only static shapes.
type World struct {
	space  *cp.Space
	shapes map[*cp.Shape]*collision.Surface
	nextID collision.SurfaceID
}

func New() *World {
	space := cp.NewSpace()
	space.Iterations = 20
	return &World{
		space:  space,
		shapes: make(map[*cp.Shape]*collision.Surface),
	}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// AddBox adds a static box and returns its surface.
func (w *World) AddBox(spec BoxSpec) *collision.Surface {
	layer := spec.Layer
	if layer == 0 {
		layer = collision.LayerDefault
	}
	w.nextID++
	anchor := mgl64.Vec3{(spec.Min.X() + spec.Max.X()) / 2, spec.Max.Y(), 0}
	if spec.Anchor != nil {
		anchor = *spec.Anchor
	}
	s := &collision.Surface{
		ID:         w.nextID,
		Name:       spec.Name,
		Tags:       spec.Tags.Clone(),
		Layer:      layer,
		Anchor:     anchor,
		GrabPoints: append([]collision.GrabPoint(nil), spec.GrabPoints...),
	}

	bb := cp.BB{L: spec.Min.X(), B: spec.Min.Y(), R: spec.Max.X(), T: spec.Max.Y()}
	shape := cp.NewBox2(w.space.StaticBody, bb, spec.Radius)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	shape.UserData = s
	w.space.AddShape(shape)
	w.shapes[shape] = s
	return s
}

// Surfaces returns every surface in id order.
func (w *World) Surfaces() []*collision.Surface {
	out := make([]*collision.Surface, w.nextID)
	for _, s := range w.shapes {
		out[s.ID-1] = s
	}
	return out
}

func (w *World) SweepCapsule(c collision.Capsule, dir mgl64.Vec3, maxDistance float64, mask collision.Layer) []collision.Hit {
	if w == nil || maxDistance <= 0 {
		return nil
	}
	planar := cp.Vector{X: dir.X(), Y: dir.Y()}
	dirLen := dir.Len()
	planarLen := planar.Length()
	if dirLen < epsilon || planarLen < epsilon {
		return nil
	}
	// travel in the plane is the projection of the 3D travel
	travel := planar.Mult(maxDistance / dirLen)
	filter := queryFilter(mask)

	best := make(map[*cp.Shape]collision.Hit)
	for _, center := range axisSamples(c) {
		start := cp.Vector{X: center.X(), Y: center.Y()}
		end := start.Add(travel)
		w.space.SegmentQuery(start, end, c.Radius, filter, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
			if alpha <= epsilon {
				return
			}
			s, ok := w.shapes[shape]
			if !ok {
				return
			}
			d := alpha * maxDistance
			if prev, ok := best[shape]; ok && prev.Distance <= d {
				return
			}
			best[shape] = collision.Hit{
				Point:    mgl64.Vec3{point.X, point.Y, c.A.Z()},
				Normal:   mgl64.Vec3{normal.X, normal.Y, 0},
				Distance: d,
				Surface:  s,
			}
		}, nil)
	}

	hits := make([]collision.Hit, 0, len(best))
	for _, h := range best {
		hits = append(hits, h)
	}
	collision.SortHits(hits)
	return hits
}

func (w *World) Raycast(origin, dir mgl64.Vec3, maxDistance float64, mask collision.Layer) []collision.Hit {
	return w.SweepCapsule(collision.Sphere(origin, 0), dir, maxDistance, mask)
}

func (w *World) OverlapCapsule(c collision.Capsule, mask collision.Layer) []*collision.Surface {
	if w == nil {
		return nil
	}
	filter := queryFilter(mask)
	seen := make(map[*collision.Surface]bool)
	var out []*collision.Surface
	for _, center := range axisSamples(c) {
		p := cp.Vector{X: center.X(), Y: center.Y()}
		w.space.PointQuery(p, c.Radius, filter, func(shape *cp.Shape, point cp.Vector, distance float64, gradient cp.Vector, data interface{}) {
			s, ok := w.shapes[shape]
			if !ok || seen[s] {
				return
			}
			seen[s] = true
			out = append(out, s)
		}, nil)
	}
	return out
}

func queryFilter(mask collision.Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
}

// axisSamples spaces circle centres along the capsule axis no further apart
// than the radius so the union of circles covers the capsule.
func axisSamples(c collision.Capsule) []mgl64.Vec3 {
	seg := c.B.Sub(c.A)
	length := math.Hypot(seg.X(), seg.Y())
	if length < epsilon {
		return []mgl64.Vec3{c.A}
	}
	step := c.Radius
	if step < epsilon {
		step = length / 4
	}
	n := int(math.Ceil(length/step)) + 1
	out := make([]mgl64.Vec3, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		out = append(out, c.A.Add(seg.Mul(t)))
	}
	return out
}
