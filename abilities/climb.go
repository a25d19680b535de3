package abilities

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/probe"
)

type climbPhase int

const (
	phaseHanging climbPhase = iota
	phaseClimbingUp
)

// Climb grabs ledges while airborne, shimmies and turns corners along them,
// climbs up on request and lets go on drop.
type Climb struct {
	deps   Deps
	params ClimbParams

	pending probe.Ledge
	current probe.Ledge
	pose    probe.Pose
	phase   climbPhase
	dropped bool

	expected      probe.Ledge
	expectedPose  probe.Pose
	expectedUntil float64
	cornerUntil   float64
}

func NewClimb(d Deps, p ClimbParams) (*Climb, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Probe == nil {
		return nil, ErrNoProbe
	}
	return &Climb{deps: d.resolved(), params: p}, nil
}

// Expect primes the climb with a ledge an assisted jump is heading for. The
// expectation lapses at until, on the scheduler clock.
func (c *Climb) Expect(l probe.Ledge, pose probe.Pose, until float64) {
	c.expected = l
	c.expectedPose = pose
	c.expectedUntil = until
}

// Current returns the ledge being held.
func (c *Climb) Current() (probe.Ledge, bool) {
	return c.current, c.current.HasLedge()
}

func (c *Climb) Pose() probe.Pose { return c.pose }

func (c *Climb) query() probe.Query {
	return probe.Query{
		Origin:         c.deps.Mover.Position(),
		Forward:        c.deps.facing(),
		CheckClearance: true,
	}
}

func (c *Climb) CanActivate(inst *ability.Instance) bool {
	m := c.deps.Mover
	if m.IsGrounded() {
		return false
	}
	c.pending = probe.Ledge{}

	now := inst.Owner().Now()
	if c.expected.HasLedge() {
		if now > c.expectedUntil {
			c.expected = probe.Ledge{}
		} else if !c.deps.Probe.IsBlocked(c.expected.Surface) &&
			m.Position().Sub(c.expectedPose.Position).Len() <= c.params.CatchDistance {
			c.pending = c.expected
			return true
		}
	}

	if !m.IsFalling() {
		return false
	}
	l, ok := c.deps.Probe.FindLedge(c.query())
	if !ok {
		return false
	}
	c.pending = l
	return true
}

func (c *Climb) OnStart(*ability.Instance) {
	c.expected = probe.Ledge{}
	c.dropped = false
	c.phase = phaseHanging
	c.deps.Mover.SetGravityEnabled(false)
	c.grab(c.pending)
	c.pending = probe.Ledge{}
	c.deps.Voice.Play(CueGrab)
}

func (c *Climb) grab(l probe.Ledge) {
	m := c.deps.Mover
	c.current = l
	c.pose = c.deps.Probe.GrabPose(l)
	m.SetPosition(c.pose.Position)
	m.SetRotation(c.pose.Rotation)
	m.SetVelocity(mgl64.Vec3{})
	if c.pose.Braced {
		c.deps.play(AnimBrace)
	} else {
		c.deps.play(AnimHang)
	}
}

func (c *Climb) Update(inst *ability.Instance, dt float64) {
	m := c.deps.Mover
	m.SetVelocity(mgl64.Vec3{})
	in := *c.deps.Input

	if c.phase == phaseClimbingUp {
		if c.deps.Animator.Finished() {
			target := c.pose.Edge.
				Add(c.current.Facing().Mul(c.params.ClimbUpForward)).
				Add(common.Up.Mul(0.01))
			m.SetPosition(target)
			inst.Stop(ability.Instigator(NameClimb))
		}
		return
	}

	switch {
	case in.Drop:
		c.dropped = true
		c.deps.Probe.Block(c.current.Surface, c.params.RegrabBlock)
		c.deps.Voice.Play(CueDrop)
		inst.Stop(ability.Instigator(NameClimb))
	case in.Climb || in.MoveZ > 0.5:
		c.phase = phaseClimbingUp
		c.deps.Animator.Play(AnimClimbUp)
		c.deps.Voice.Play(CueClimbUp)
	case in.MoveX > 0.1 || in.MoveX < -0.1:
		c.shimmy(inst, in.MoveX, dt)
	default:
		if c.pose.Braced {
			c.deps.play(AnimBrace)
		} else {
			c.deps.play(AnimHang)
		}
	}
}

func (c *Climb) shimmy(inst *ability.Instance, moveX, dt float64) {
	side := probe.Right
	if moveX < 0 {
		side = probe.Left
	}
	speed := c.params.ShimmySpeed * common.Clamp(abs(moveX), 0, 1)
	q := c.query()
	step := speed * dt
	if l, ok := c.deps.Probe.CanShimmy(q, c.current, side, step); ok {
		// a ledge clamped at the wall end does not move us
		if c.deps.Probe.GrabPose(l).Position.Sub(q.Origin).Len() >= step/4 {
			c.grab(l)
			c.deps.play(AnimShimmy)
			return
		}
	}
	now := inst.Owner().Now()
	if now < c.cornerUntil {
		return
	}
	if corner, ok := c.deps.Probe.FindCorner(q, c.current, side); ok {
		c.cornerUntil = now + c.params.CornerCooldown
		c.grab(corner.Ledge)
		c.deps.Voice.Play(CueCorner)
	}
}

func (c *Climb) OnStop(*ability.Instance) {
	c.deps.Mover.SetGravityEnabled(true)
	c.current = probe.Ledge{}
	c.phase = phaseHanging
}

// Dropped reports whether the last climb ended by letting go.
func (c *Climb) Dropped() bool { return c.dropped }

func (c *Climb) Bind(d Deps) (ability.Behavior, error) {
	return NewClimb(d, c.params)
}

func (c *Climb) Clone() ability.Behavior {
	return &Climb{deps: c.deps, params: c.params}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
