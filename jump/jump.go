// Package jump decides what a jump request should turn into: an ordinary
// jump, an assisted ballistic hop onto a destination, or an assisted jump
// that ends in a ledge grab.
package jump

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/debugdraw"
	"github.com/milk9111/traverse/probe"
	"github.com/milk9111/traverse/tag"
	"github.com/milk9111/traverse/trajectory"
)

// arcSkin lifts arc sweeps off the floor they start and end on.
const arcSkin = 0.05

type Kind int

const (
	// KindNone means no assisted jump: either nothing is reachable or an
	// ordinary jump already gets there (see Result.NormalJumpSuffices).
	KindNone Kind = iota
	KindHop
	KindClimb
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindHop:
		return "hop"
	case KindClimb:
		return "climb"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Params struct {
	Trajectory trajectory.Params
	Mode       trajectory.Mode

	SearchRadius float64
	// AcceptAngle is the half angle, in degrees, of the cone around the
	// requested direction that candidates must lie in.
	AcceptAngle     float64
	MinDistance     float64
	MaxDrop         float64
	ElevationWeight float64
	// Ledges whose outward normal is within RedundantAngle of the jump
	// direction are skipped.
	RedundantAngle float64

	NormalJumpSpeed     float64
	NormalJumpHeight    float64
	NormalJumpTolerance float64
	ArcSamples          int

	DestinationTags tag.Set
	DestinationMask collision.Layer
}

func DefaultParams() Params {
	return Params{
		Trajectory: trajectory.Params{
			MaxHeight:          2.5,
			MinHeight:          0.5,
			MaxHorizontalSpeed: 8,
			Gravity:            -20,
		},
		Mode:                trajectory.ChooseBest,
		SearchRadius:        8,
		AcceptAngle:         45,
		MinDistance:         1,
		MaxDrop:             4,
		ElevationWeight:     0.5,
		RedundantAngle:      60,
		NormalJumpSpeed:     4,
		NormalJumpHeight:    1,
		NormalJumpTolerance: 0.1,
		ArcSamples:          12,
		DestinationTags:     tag.NewSet("Jump.Destination"),
		DestinationMask:     collision.LayerDestination,
	}
}

type Result struct {
	Kind     Kind
	Solution trajectory.Solution
	Target   mgl64.Vec3
	// Ledge and Pose are set for KindClimb, and for KindNone when an
	// ordinary jump reaches a ledge.
	Ledge       probe.Ledge
	Pose        probe.Pose
	Destination *collision.Surface
	// NormalJumpSuffices is set when a feasible target exists but an
	// unassisted jump reaches it without obstruction.
	NormalJumpSuffices bool
}

type candidate struct {
	target      mgl64.Vec3
	score       float64
	ledge       probe.Ledge
	pose        probe.Pose
	destination *collision.Surface
}

type Predictor struct {
	world  collision.World
	probe  *probe.Probe
	params Params
	sink   debugdraw.Sink
}

func New(world collision.World, p *probe.Probe, params Params, sink debugdraw.Sink) *Predictor {
	return &Predictor{
		world:  world,
		probe:  p,
		params: params,
		sink:   debugdraw.OrNop(sink),
	}
}

func (j *Predictor) Params() Params { return j.params }

func (j *Predictor) SetParams(params Params) { j.params = params }

// Predict classifies a jump from origin (feet) toward dir. Ledge candidates
// are tried before destinations; within each pool the best ranked candidate
// is solved first and the first feasible one is taken.
func (j *Predictor) Predict(origin, dir mgl64.Vec3) Result {
	dir = common.HorizontalDir(dir)
	if dir.Len() == 0 {
		return Result{}
	}

	pools := [][]candidate{j.ledgeCandidates(origin, dir), j.destinationCandidates(origin, dir)}
	for _, pool := range pools {
		for _, c := range pool {
			sol := trajectory.Solve(origin, c.target, j.params.Trajectory, j.params.Mode)
			if !sol.Found {
				continue
			}
			if j.drop(origin, c.target) > j.params.MaxDrop {
				continue
			}
			return j.classify(origin, dir, c, sol)
		}
	}
	return Result{}
}

func (j *Predictor) classify(origin, dir mgl64.Vec3, c candidate, sol trajectory.Solution) Result {
	res := Result{
		Solution:    sol,
		Target:      c.target,
		Ledge:       c.ledge,
		Pose:        c.pose,
		Destination: c.destination,
	}
	if j.NormalJumpReaches(origin, c.target, c.ledge.Surface, c.destination) {
		res.NormalJumpSuffices = true
		return res
	}
	j.drawArc(origin, sol)
	if c.ledge.HasLedge() {
		res.Kind = KindClimb
	} else {
		res.Kind = KindHop
	}
	return res
}

// drop is how far target lies below origin, measured along gravity.
func (j *Predictor) drop(origin, target mgl64.Vec3) float64 {
	up := -math.Copysign(1, j.params.Trajectory.Gravity)
	return (origin.Y() - target.Y()) * up
}

func (j *Predictor) ledgeCandidates(origin, dir mgl64.Vec3) []candidate {
	pp := j.probe.Params()
	minDot := math.Cos(mgl64.DegToRad(j.params.AcceptAngle))

	var out []candidate
	add := func(l probe.Ledge) {
		if common.AngleBetween(l.Normal(), dir) < j.params.RedundantAngle {
			return
		}
		pose := j.probe.GrabPose(l)
		to := common.Horizontal(pose.Position.Sub(origin))
		d := common.SafeNormalize(to).Dot(dir)
		if d < minDot {
			return
		}
		out = append(out, candidate{
			target: pose.Position,
			score:  ledgeScore(d, l.Edge().Y()-origin.Y(), j.params.ElevationWeight),
			ledge:  l,
			pose:   pose,
		})
	}

	center := origin.Add(common.Up.Mul(pp.CapsuleHeight / 2))
	for _, s := range j.world.OverlapCapsule(collision.Sphere(center, j.params.SearchRadius), pp.ClimbMask) {
		if j.probe.IsBlocked(s) || (!pp.ClimbableTags.IsEmpty() && !s.Tags.HasAny(pp.ClimbableTags)) {
			continue
		}
		for _, gp := range s.GrabPoints {
			if l := probe.GrabPointLedge(s, gp); j.probe.CheckClearance(l) {
				add(l)
			}
		}
	}
	// raw geometry along the jump when nothing authored is in range
	if len(out) == 0 {
		if l, ok := j.probe.FindLedgeOnJumpDirection(probe.Query{Origin: origin, Forward: dir}, true); ok && l.GrabPoint == nil {
			add(l)
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].score > out[b].score })
	return out
}

// ledgeScore rewards targets above the jumper in proportion to height and
// alignment, and penalises targets below by how far they stray from the
// requested direction.
func ledgeScore(d, elevation, weight float64) float64 {
	if elevation >= 0 {
		return d + elevation*d*weight
	}
	return d - math.Abs(elevation)*(1-d)*weight
}

func (j *Predictor) destinationCandidates(origin, dir mgl64.Vec3) []candidate {
	pp := j.probe.Params()
	minDot := math.Cos(mgl64.DegToRad(j.params.AcceptAngle))
	center := origin.Add(common.Up.Mul(pp.CapsuleHeight / 2))

	var out []candidate
	for _, s := range j.world.OverlapCapsule(collision.Sphere(center, j.params.SearchRadius), j.params.DestinationMask) {
		if !j.params.DestinationTags.IsEmpty() && !s.Tags.HasAny(j.params.DestinationTags) {
			continue
		}
		to := common.Horizontal(s.Anchor.Sub(origin))
		if to.Len() < j.params.MinDistance {
			continue
		}
		d := common.SafeNormalize(to).Dot(dir)
		if d < minDot {
			continue
		}
		out = append(out, candidate{target: s.Anchor, score: d, destination: s})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].score > out[b].score })
	return out
}

// NormalJumpReaches reports whether an unassisted jump toward target arrives
// above it within tolerance without hitting blocking geometry. The target's
// own surfaces are ignored.
func (j *Predictor) NormalJumpReaches(origin, target mgl64.Vec3, ignore ...*collision.Surface) bool {
	speed := j.params.NormalJumpSpeed
	g := j.params.Trajectory.Gravity
	if speed <= 0 || g == 0 {
		return false
	}
	to := common.Horizontal(target.Sub(origin))
	dist := to.Len()
	t := dist / speed
	upSign := -math.Copysign(1, g)
	vy := upSign * math.Sqrt(2*math.Abs(g)*j.params.NormalJumpHeight)

	sol := trajectory.Solution{
		Velocity: common.SafeNormalize(to).Mul(speed).Add(mgl64.Vec3{0, vy, 0}),
		Time:     t,
	}
	end := trajectory.PositionAt(origin, sol, g, t)
	if (end.Y()-target.Y())*upSign < -j.params.NormalJumpTolerance {
		return false
	}
	return !j.arcBlocked(origin, sol, ignore)
}

func (j *Predictor) arcBlocked(origin mgl64.Vec3, sol trajectory.Solution, ignore []*collision.Surface) bool {
	pp := j.probe.Params()
	n := j.params.ArcSamples
	if n < 1 {
		n = 1
	}
	pts := trajectory.Sample(origin, sol, j.params.Trajectory.Gravity, n)
	radius := pp.CapsuleRadius * 0.9
	for i := 1; i < len(pts); i++ {
		step := pts[i].Sub(pts[i-1])
		c := collision.CapsuleAt(pts[i-1].Add(common.Up.Mul(arcSkin)), pp.CapsuleHeight-arcSkin, radius)
		for _, h := range j.world.SweepCapsule(c, step, step.Len(), pp.BlockingMask) {
			if !ignored(h.Surface, ignore) {
				j.sink.Point(h.Point, debugdraw.ColorReject)
				return true
			}
		}
	}
	return false
}

func ignored(s *collision.Surface, ignore []*collision.Surface) bool {
	for _, i := range ignore {
		if i != nil && i == s {
			return true
		}
	}
	return false
}

func (j *Predictor) drawArc(origin mgl64.Vec3, sol trajectory.Solution) {
	pts := trajectory.Sample(origin, sol, j.params.Trajectory.Gravity, 16)
	for i := 1; i < len(pts); i++ {
		j.sink.Line(pts[i-1], pts[i], debugdraw.ColorTrajectory)
	}
}
