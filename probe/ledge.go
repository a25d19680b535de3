package probe

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/debugdraw"
)

// Side selects left or right relative to the facing direction.
type Side int

const (
	Left  Side = -1
	Right Side = 1
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Corner is a ledge reached by turning around a corner.
type Corner struct {
	Ledge  Ledge
	Side   Side
	Inward bool
}

// NearbyClimbables is the broad phase: climbable, unblocked surfaces within
// BroadPhaseRadius of the body centre.
func (p *Probe) NearbyClimbables(q Query) []*collision.Surface {
	center := q.Origin.Add(common.Up.Mul(p.params.CapsuleHeight / 2))
	found := p.world.OverlapCapsule(collision.Sphere(center, p.params.BroadPhaseRadius), p.params.ClimbMask)
	f := p.ledgeFilter(q)
	out := found[:0]
	for _, s := range found {
		if p.accepts(s, f) {
			out = append(out, s)
		}
	}
	return out
}

// FindLedge scans RadialSamples directions around the body and returns the
// lowest grabbable ledge.
func (p *Probe) FindLedge(q Query) (Ledge, bool) {
	if len(p.NearbyClimbables(q)) == 0 {
		return Ledge{}, false
	}
	n := p.params.RadialSamples
	if n < 1 {
		n = 1
	}
	fwd := q.facing()
	var candidates []Ledge
	for i := 0; i < n; i++ {
		dir := common.RotateY(fwd, 360*float64(i)/float64(n))
		if l, ok := p.ledgeAlong(q, q.Origin, dir, p.params.ForwardDistance); ok {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) == 0 {
		return Ledge{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Top.Point.Y() < candidates[j].Top.Point.Y()
	})
	return candidates[0], true
}

// FindLedgeInDirection sweeps once along the query's facing.
func (p *Probe) FindLedgeInDirection(q Query) (Ledge, bool) {
	return p.ledgeAlong(q, q.Origin, q.facing(), p.params.ForwardDistance)
}

// FindLedgeOnJumpDirection sweeps a fan of parallel lanes offset sideways
// from the origin. Ledges facing more than JumpAcceptAngle away from the
// jump are ignored. With preferReach the farthest well-aligned ledge wins,
// otherwise the nearest.
func (p *Probe) FindLedgeOnJumpDirection(q Query, preferReach bool) (Ledge, bool) {
	fwd := q.facing()
	right := common.RightOf(fwd)

	var best Ledge
	bestScore := math.Inf(-1)
	found := false
	for i := -p.params.JumpFanHalfCount; i <= p.params.JumpFanHalfCount; i++ {
		origin := q.Origin.Add(right.Mul(float64(i) * p.params.JumpFanSpacing))
		l, ok := p.ledgeAlong(q, origin, fwd, p.params.JumpSearchDistance)
		if !ok {
			continue
		}
		if common.AngleBetween(l.Facing(), fwd) > p.params.JumpAcceptAngle {
			p.sink.Point(l.Edge(), debugdraw.ColorReject)
			continue
		}
		to := common.Horizontal(l.Edge().Sub(q.Origin))
		distance := math.Max(to.Len(), 1e-6)
		dot := common.SafeNormalize(to).Dot(fwd)

		score := dot / distance
		if preferReach {
			score = distance*dot + 2*dot
		}
		if score > bestScore {
			best, bestScore, found = l, score, true
		}
	}
	return best, found
}

// FindCorner looks for a ledge around a corner while hanging from current at
// q.Origin. An inward turn onto a wall ahead on that side is tried first,
// then an outward turn around the end of the current wall.
func (p *Probe) FindCorner(q Query, current Ledge, side Side) (Corner, bool) {
	if !current.HasLedge() {
		return Corner{}, false
	}
	facing := current.Facing()
	lateral := common.RightOf(facing).Mul(float64(side))
	turn := Query{Origin: q.Origin, Forward: lateral, CheckClearance: q.CheckClearance}

	if l, ok := p.ledgeAlong(turn, q.Origin, lateral, p.params.CornerDistance); ok {
		return Corner{Ledge: l, Side: side, Inward: true}, true
	}

	body := collision.CapsuleAt(q.Origin, p.params.CapsuleHeight, p.params.CapsuleRadius)
	blockers := p.world.SweepCapsule(body, lateral, p.params.CornerSideOffset, p.params.BlockingMask)
	for _, h := range blockers {
		if h.Surface != current.Surface {
			p.sink.Point(h.Point, debugdraw.ColorReject)
			return Corner{}, false
		}
	}

	around := q.Origin.
		Add(lateral.Mul(p.params.CornerSideOffset)).
		Add(facing.Mul(p.params.CornerForward))
	back := lateral.Mul(-1)
	turn.Forward = back
	if l, ok := p.ledgeAlong(turn, around, back, p.params.CornerDistance); ok {
		return Corner{Ledge: l, Side: side}, true
	}
	return Corner{}, false
}

// CanShimmy checks a sideways move of distance while hanging from current at
// q.Origin. The body must be free to slide and every ShimmyStep along the way
// must still find a ledge turned no more than ShimmyMaxAngle from current.
// It returns the ledge at the end of the move.
func (p *Probe) CanShimmy(q Query, current Ledge, side Side, distance float64) (Ledge, bool) {
	if !current.HasLedge() || distance <= 0 {
		return Ledge{}, false
	}
	facing := current.Facing()
	lateral := common.RightOf(facing).Mul(float64(side))

	body := collision.CapsuleAt(q.Origin, p.params.CapsuleHeight, p.params.CapsuleRadius)
	obstacles := p.world.SweepCapsule(body, lateral, distance, p.params.BlockingMask|p.params.ClimbMask)
	for _, h := range obstacles {
		if h.Surface != current.Surface {
			p.sink.Point(h.Point, debugdraw.ColorReject)
			return Ledge{}, false
		}
	}

	step := p.params.ShimmyStep
	if step <= 0 {
		step = distance
	}
	steps := int(math.Ceil(distance/step - 1e-9))
	sample := Query{Forward: facing, CheckClearance: q.CheckClearance}
	var last Ledge
	for k := 1; k <= steps; k++ {
		origin := q.Origin.Add(lateral.Mul(math.Min(float64(k)*step, distance)))
		sample.Origin = origin
		l, ok := p.ledgeAlong(sample, origin, facing, p.params.ForwardDistance)
		if !ok || common.AngleBetween(l.Facing(), facing) > p.params.ShimmyMaxAngle {
			return Ledge{}, false
		}
		last = l
	}
	return last, true
}

// FindLadder probes straight ahead for a ladder, then right and left when
// allowSideways is set.
func (p *Probe) FindLadder(q Query, allowSideways bool) (Ledge, bool) {
	fwd := q.facing()
	dirs := []mgl64.Vec3{fwd}
	if allowSideways {
		right := common.RightOf(fwd)
		dirs = append(dirs, right, right.Mul(-1))
	}
	f := Filter{Tags: p.params.LadderTags, Mask: p.params.LadderMask, Exclude: q.Current}
	for _, dir := range dirs {
		hits := p.ForwardSweep(q.Origin, p.params.CapsuleHeight, dir, p.params.ForwardDistance, p.params.CastRadius, f)
		if len(hits) == 0 {
			continue
		}
		h := hits[0]
		p.sink.Point(h.Point, debugdraw.ColorLedge)
		return Ledge{Forward: h, Top: h, Surface: h.Surface}, true
	}
	return Ledge{}, false
}
