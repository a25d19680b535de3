package abilities

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/jump"
)

// Jump launches the character. When a predictor is available the jump is
// assisted: a hop follows the solved arc onto a destination and a climb jump
// also tells the climb ability which ledge to expect.
type Jump struct {
	deps   Deps
	params JumpParams
	last   jump.Result
}

func NewJump(d Deps, p JumpParams) (*Jump, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Jump{deps: d.resolved(), params: p}, nil
}

// LastResult is the prediction made by the most recent start.
func (j *Jump) LastResult() jump.Result { return j.last }

func (j *Jump) CanActivate(*ability.Instance) bool {
	return j.deps.Mover.IsGrounded()
}

func (j *Jump) OnStart(inst *ability.Instance) {
	m := j.deps.Mover
	in := *j.deps.Input
	dir := j.deps.facing()
	if in.Moving() {
		dir = common.HorizontalDir(in.Move())
	}

	j.last = jump.Result{}
	if j.deps.Predictor != nil {
		j.last = j.deps.Predictor.Predict(m.Position(), dir)
	}

	switch j.last.Kind {
	case jump.KindHop, jump.KindClimb:
		sol := j.last.Solution
		m.SetVelocity(sol.Velocity)
		if f := common.HorizontalDir(sol.Velocity); f.Len() > 0 {
			m.SetRotation(common.LookRotation(f, common.Up))
		}
		if j.last.Kind == jump.KindClimb {
			if c, ok := ability.Find[*Climb](inst.Owner(), NameClimb); ok {
				c.Expect(j.last.Ledge, j.last.Pose, inst.Owner().Now()+sol.Time+j.params.AssistGrace)
			}
		}
	default:
		m.SetVelocity(j.plainVelocity(dir, in.Moving()))
	}
	m.SetGravityEnabled(true)
	j.deps.play(AnimJump)
	j.deps.Voice.Play(CueJump)
}

func (j *Jump) plainVelocity(dir mgl64.Vec3, moving bool) mgl64.Vec3 {
	m := j.deps.Mover
	g := m.Gravity()
	h := common.Horizontal(m.Velocity())
	if moving {
		h = dir.Mul(j.params.Speed)
	}
	vy := 0.0
	if g != 0 {
		vy = -math.Copysign(1, g) * math.Sqrt(2*math.Abs(g)*j.params.Height)
	}
	return mgl64.Vec3{h.X(), vy, h.Z()}
}

func (j *Jump) Update(inst *ability.Instance, _ float64) {
	if inst.Elapsed() >= j.params.MinAirTime && j.deps.Mover.IsGrounded() {
		inst.Stop(ability.Instigator(NameJump))
	}
}

func (j *Jump) OnStop(*ability.Instance) {}

func (j *Jump) Bind(d Deps) (ability.Behavior, error) {
	return NewJump(d, j.params)
}

func (j *Jump) Clone() ability.Behavior {
	c := *j
	c.last = jump.Result{}
	return &c
}
