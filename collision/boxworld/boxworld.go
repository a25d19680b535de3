// Package boxworld is an analytic collision.World made of oriented boxes.
// Sweeps are exact for capsules whose axis is aligned with the box frame
// (upright characters against yawed boxes) and conservative otherwise.
package boxworld

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/tag"
)

const epsilon = 1e-9

// BoxSpec describes a box to add to the world.
type BoxSpec struct {
	Name       string
	Tags       tag.Set
	Layer      collision.Layer
	Center     mgl64.Vec3
	Size       mgl64.Vec3
	Yaw        float64 // degrees around +Y
	GrabPoints []collision.GrabPoint
	// Anchor defaults to the centre of the top face.
	Anchor *mgl64.Vec3
}

type box struct {
	surface *collision.Surface
	center  mgl64.Vec3
	half    mgl64.Vec3
	rot     mgl64.Quat
	inv     mgl64.Quat
}

// World is a list of oriented boxes.
type World struct {
	boxes  []*box
	nextID collision.SurfaceID
}

func New() *World {
	return &World{}
}

// AddBox adds a box and returns its surface.
func (w *World) AddBox(spec BoxSpec) *collision.Surface {
	w.nextID++
	layer := spec.Layer
	if layer == 0 {
		layer = collision.LayerDefault
	}
	half := spec.Size.Mul(0.5)
	anchor := spec.Center.Add(common.Up.Mul(half.Y()))
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
	rot := mgl64.QuatRotate(mgl64.DegToRad(spec.Yaw), common.Up)
	w.boxes = append(w.boxes, &box{
		surface: s,
		center:  spec.Center,
		half:    half,
		rot:     rot,
		inv:     rot.Conjugate(),
	})
	return s
}

// Remove deletes the box owning s.
func (w *World) Remove(s *collision.Surface) bool {
	for i, b := range w.boxes {
		if b.surface == s {
			w.boxes = append(w.boxes[:i], w.boxes[i+1:]...)
			return true
		}
	}
	return false
}

// Surfaces returns every surface in insertion order.
func (w *World) Surfaces() []*collision.Surface {
	out := make([]*collision.Surface, 0, len(w.boxes))
	for _, b := range w.boxes {
		out = append(out, b.surface)
	}
	return out
}

// Corners returns the eight world-space corners of the box owning s.
func (w *World) Corners(s *collision.Surface) ([8]mgl64.Vec3, bool) {
	var out [8]mgl64.Vec3
	for _, b := range w.boxes {
		if b.surface != s {
			continue
		}
		i := 0
		for _, x := range []float64{-1, 1} {
			for _, y := range []float64{-1, 1} {
				for _, z := range []float64{-1, 1} {
					local := mgl64.Vec3{x * b.half.X(), y * b.half.Y(), z * b.half.Z()}
					out[i] = b.center.Add(b.rot.Rotate(local))
					i++
				}
			}
		}
		return out, true
	}
	return out, false
}

func (w *World) SweepCapsule(c collision.Capsule, dir mgl64.Vec3, maxDistance float64, mask collision.Layer) []collision.Hit {
	dir = common.SafeNormalize(dir)
	if dir.Len() == 0 || maxDistance <= 0 {
		return nil
	}
	var hits []collision.Hit
	for _, b := range w.boxes {
		if !b.surface.Layer.Overlaps(mask) {
			continue
		}
		if h, ok := b.sweep(c, dir, maxDistance); ok {
			hits = append(hits, h)
		}
	}
	collision.SortHits(hits)
	return hits
}

func (w *World) Raycast(origin, dir mgl64.Vec3, maxDistance float64, mask collision.Layer) []collision.Hit {
	return w.SweepCapsule(collision.Sphere(origin, 0), dir, maxDistance, mask)
}

func (w *World) OverlapCapsule(c collision.Capsule, mask collision.Layer) []*collision.Surface {
	var out []*collision.Surface
	for _, b := range w.boxes {
		if !b.surface.Layer.Overlaps(mask) {
			continue
		}
		if b.overlaps(c) {
			out = append(out, b.surface)
		}
	}
	return out
}

func (b *box) toLocal(p mgl64.Vec3) mgl64.Vec3 {
	return b.inv.Rotate(p.Sub(b.center))
}

func (b *box) sweep(c collision.Capsule, dir mgl64.Vec3, maxDistance float64) (collision.Hit, bool) {
	mid := b.toLocal(c.A.Add(c.B).Mul(0.5))
	halfSeg := absVec(b.inv.Rotate(c.B.Sub(c.A).Mul(0.5)))
	ext := b.half.Add(halfSeg).Add(mgl64.Vec3{c.Radius, c.Radius, c.Radius})
	localDir := b.inv.Rotate(dir)

	t, axis, ok := slab(mid, localDir, ext, maxDistance)
	if !ok || t < 0 {
		return collision.Hit{}, false
	}

	var n mgl64.Vec3
	if localDir[axis] > 0 {
		n[axis] = -1
	} else {
		n[axis] = 1
	}
	at := mid.Add(localDir.Mul(t))
	contact := mgl64.Vec3{
		common.Clamp(at.X(), -b.half.X(), b.half.X()),
		common.Clamp(at.Y(), -b.half.Y(), b.half.Y()),
		common.Clamp(at.Z(), -b.half.Z(), b.half.Z()),
	}
	contact[axis] = n[axis] * b.half[axis]
	return collision.Hit{
		Point:    b.center.Add(b.rot.Rotate(contact)),
		Normal:   b.rot.Rotate(n),
		Distance: t,
		Surface:  b.surface,
	}, true
}

func (b *box) overlaps(c collision.Capsule) bool {
	a := b.toLocal(c.A)
	d := b.toLocal(c.B).Sub(a)
	ext := b.half.Add(mgl64.Vec3{c.Radius, c.Radius, c.Radius})
	if d.Len() < epsilon {
		return inside(a, ext)
	}
	length := d.Len()
	t, _, ok := slab(a, d.Mul(1/length), ext, length)
	if !ok {
		return false
	}
	// a negative entry means the segment starts inside
	return t <= length
}

// slab intersects the ray o + d*t with the box [-ext, ext]. It returns the
// entry distance (negative when o starts inside) and the entry axis.
func slab(o, d, ext mgl64.Vec3, maxDistance float64) (float64, int, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	axis := -1
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < epsilon {
			if o[i] < -ext[i] || o[i] > ext[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (-ext[i] - o[i]) * inv
		t2 := (ext[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, 0, false
		}
	}
	if axis < 0 || tmax < 0 || tmin > maxDistance {
		return 0, 0, false
	}
	return tmin, axis, true
}

func inside(p, ext mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < -ext[i] || p[i] > ext[i] {
			return false
		}
	}
	return true
}

func absVec(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(v.X()), math.Abs(v.Y()), math.Abs(v.Z())}
}
