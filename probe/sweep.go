package probe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/debugdraw"
	"github.com/milk9111/traverse/tag"
)

// clearanceSkin lifts and thins the clearance capsule so resting contact
// with the floor or the held wall does not count as an overlap.
const clearanceSkin = 0.05

// Filter narrows the surfaces a forward sweep reports.
type Filter struct {
	Tags    tag.Set
	Mask    collision.Layer
	Exclude *collision.Surface
}

// ForwardSweep casts an upright capsule standing on origin along dir and
// returns the hits that pass f, nearest first. Blocked surfaces are skipped.
func (p *Probe) ForwardSweep(origin mgl64.Vec3, capsuleHeight float64, dir mgl64.Vec3, maxDistance, radius float64, f Filter) []collision.Hit {
	dir = common.SafeNormalize(dir)
	if dir.Len() == 0 || maxDistance <= 0 {
		return nil
	}
	c := collision.CapsuleAt(origin, capsuleHeight, radius)
	mid := c.A.Add(c.B).Mul(0.5)
	p.sink.Line(mid, mid.Add(dir.Mul(maxDistance)), debugdraw.ColorSweep)

	hits := p.world.SweepCapsule(c, dir, maxDistance, f.Mask)
	out := hits[:0]
	for _, h := range hits {
		if !p.accepts(h.Surface, f) {
			continue
		}
		p.sink.Point(h.Point, debugdraw.ColorHit)
		out = append(out, h)
	}
	return out
}

func (p *Probe) accepts(s *collision.Surface, f Filter) bool {
	if s == nil || s == f.Exclude || p.IsBlocked(s) {
		return false
	}
	return f.Tags.IsEmpty() || s.Tags.HasAny(f.Tags)
}

// TopSweep looks for the top of the surface behind fwd. It steps along dir
// from the forward hit, casting down from ReachHeight to MinGrabHeight above
// origin, and returns the first sample that lands on the same surface with a
// normal within MaxTopAngle of up. Later samples are not considered.
func (p *Probe) TopSweep(origin mgl64.Vec3, fwd collision.Hit, dir mgl64.Vec3) (collision.Hit, bool) {
	dir = common.HorizontalDir(dir)
	depth := p.params.ReachHeight - p.params.MinGrabHeight
	if dir.Len() == 0 || depth <= 0 || fwd.Surface == nil {
		return collision.Hit{}, false
	}
	startY := origin.Y() + p.params.ReachHeight
	down := common.Up.Mul(-1)

	for k := 1; k <= p.params.TopSampleCount; k++ {
		s := fwd.Point.Add(dir.Mul(float64(k) * p.params.TopSampleStep))
		from := mgl64.Vec3{s.X(), startY, s.Z()}
		hits := p.world.Raycast(from, down, depth, p.params.ClimbMask|p.params.BlockingMask)
		if len(hits) == 0 {
			p.sink.Line(from, from.Add(down.Mul(depth)), debugdraw.ColorReject)
			continue
		}
		h := hits[0]
		if h.Surface != fwd.Surface || common.AngleBetween(h.Normal, common.Up) > p.params.MaxTopAngle {
			p.sink.Line(from, h.Point, debugdraw.ColorReject)
			continue
		}
		p.sink.Line(from, h.Point, debugdraw.ColorTop)
		return h, true
	}
	return collision.Hit{}, false
}

// CheckClearance reports whether the body fits at the grab pose of l without
// overlapping blocking geometry other than the ledge itself.
func (p *Probe) CheckClearance(l Ledge) bool {
	pose := p.GrabPose(l)
	feet := pose.Position.Add(common.Up.Mul(clearanceSkin))
	radius := math.Max(p.params.CapsuleRadius-clearanceSkin, 0)
	c := collision.CapsuleAt(feet, p.params.CapsuleHeight-clearanceSkin, radius)
	blockers := collision.Without(p.world.OverlapCapsule(c, p.params.BlockingMask), l.Surface)
	return len(blockers) == 0
}

func (p *Probe) sweepHeight() float64 {
	return math.Max(p.params.CapsuleHeight, p.params.ReachHeight)
}

func (p *Probe) ledgeFilter(q Query) Filter {
	return Filter{Tags: p.params.ClimbableTags, Mask: p.params.ClimbMask, Exclude: q.Current}
}

// ledgeAlong sweeps from origin along dir and returns the ledge behind the
// first forward hit whose top sweep succeeds. A clearance failure on that
// ledge fails the whole search.
func (p *Probe) ledgeAlong(q Query, origin, dir mgl64.Vec3, distance float64) (Ledge, bool) {
	hits := p.ForwardSweep(origin, p.sweepHeight(), dir, distance, p.params.CastRadius, p.ledgeFilter(q))
	for _, fwd := range hits {
		top, ok := p.TopSweep(origin, fwd, dir)
		if !ok {
			continue
		}
		l, ok := p.makeLedge(fwd, top)
		if !ok {
			return Ledge{}, false
		}
		if q.CheckClearance && !p.CheckClearance(l) {
			p.sink.Point(l.Edge(), debugdraw.ColorReject)
			return Ledge{}, false
		}
		p.sink.Point(l.Edge(), debugdraw.ColorLedge)
		return l, true
	}
	return Ledge{}, false
}

// makeLedge applies the nearest authored grab point, if any, and rechecks the
// top angle against it.
func (p *Probe) makeLedge(fwd, top collision.Hit) (Ledge, bool) {
	gp, ok := fwd.Surface.NearestGrabPoint(top.Point)
	if !ok {
		return Ledge{Forward: fwd, Top: top, Surface: fwd.Surface}, true
	}
	l := GrabPointLedge(fwd.Surface, gp)
	l.Forward.Distance = fwd.Distance
	l.Top.Distance = top.Distance
	if common.AngleBetween(l.Top.Normal, common.Up) > p.params.MaxTopAngle {
		return Ledge{}, false
	}
	return l, true
}

// GrabPointLedge builds a ledge straight from an authored grab point.
func GrabPointLedge(s *collision.Surface, gp collision.GrabPoint) Ledge {
	return Ledge{
		Forward: collision.Hit{
			Point:   gp.Position,
			Normal:  gp.Facing().Mul(-1),
			Surface: s,
		},
		Top: collision.Hit{
			Point:   gp.Position,
			Normal:  gp.Rotation.Rotate(common.Up),
			Surface: s,
		},
		Surface:   s,
		GrabPoint: &gp,
	}
}
