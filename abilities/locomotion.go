package abilities

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/common"
)

// Locomotion walks the character around while it stands on something. It
// auto-starts whenever the body is grounded and stops when it leaves the floor.
type Locomotion struct {
	deps   Deps
	params LocomotionParams
}

func NewLocomotion(d Deps, p LocomotionParams) (*Locomotion, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Locomotion{deps: d.resolved(), params: p}, nil
}

func (l *Locomotion) CanActivate(*ability.Instance) bool {
	return l.deps.Mover.IsGrounded()
}

func (l *Locomotion) OnStart(*ability.Instance) {
	l.deps.play(AnimIdle)
}

func (l *Locomotion) Update(inst *ability.Instance, _ float64) {
	m := l.deps.Mover
	if !m.IsGrounded() {
		inst.Stop(ability.Instigator(NameLocomotion))
		return
	}
	in := *l.deps.Input
	move := in.Move()
	v := move.Mul(l.params.Speed)
	m.SetVelocity(mgl64.Vec3{v.X(), m.Velocity().Y(), v.Z()})
	if !in.Moving() {
		l.deps.play(AnimIdle)
		return
	}
	m.SetRotation(common.LookRotation(move, common.Up))
	l.deps.play(AnimRun)
}

func (l *Locomotion) OnStop(*ability.Instance) {}

func (l *Locomotion) Bind(d Deps) (ability.Behavior, error) {
	return NewLocomotion(d, l.params)
}

func (l *Locomotion) Clone() ability.Behavior {
	c := *l
	return &c
}
