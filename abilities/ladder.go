package abilities

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/probe"
)

// Ladder attaches to a ladder in front of (or beside) the character when the
// climb input is held, and moves along it with forward input.
type Ladder struct {
	deps    Deps
	params  LadderParams
	pending probe.Ledge
	current probe.Ledge
}

func NewLadder(d Deps, p LadderParams) (*Ladder, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Probe == nil {
		return nil, ErrNoProbe
	}
	return &Ladder{deps: d.resolved(), params: p}, nil
}

func (l *Ladder) query() probe.Query {
	return probe.Query{Origin: l.deps.Mover.Position(), Forward: l.deps.facing()}
}

func (l *Ladder) CanActivate(*ability.Instance) bool {
	if !l.deps.Input.Climb {
		return false
	}
	found, ok := l.deps.Probe.FindLadder(l.query(), l.params.AllowSideways)
	if !ok {
		return false
	}
	l.pending = found
	return true
}

func (l *Ladder) OnStart(*ability.Instance) {
	m := l.deps.Mover
	m.SetGravityEnabled(false)
	m.SetVelocity(mgl64.Vec3{})
	l.attach(l.pending)
	l.pending = probe.Ledge{}
	l.deps.play(AnimLadder)
	l.deps.Voice.Play(CueGrab)
}

func (l *Ladder) attach(found probe.Ledge) {
	m := l.deps.Mover
	l.current = found
	n := found.Normal()
	hit := found.Forward.Point
	at := mgl64.Vec3{hit.X(), m.Position().Y(), hit.Z()}.
		Add(n.Mul(m.CapsuleRadius() + l.params.Gap))
	m.SetPosition(at)
	m.SetRotation(common.LookRotation(found.Facing(), common.Up))
}

func (l *Ladder) Update(inst *ability.Instance, dt float64) {
	m := l.deps.Mover
	in := *l.deps.Input
	m.SetVelocity(mgl64.Vec3{})

	if in.Drop {
		inst.Stop(ability.Instigator(NameLadder))
		return
	}
	if in.JumpPressed {
		away := l.current.Normal().Mul(l.params.JumpOffSpeed)
		inst.Stop(ability.Instigator(NameLadder))
		m.SetVelocity(away)
		return
	}

	step := common.Clamp(in.MoveZ, -1, 1) * l.params.Speed * dt
	if step == 0 {
		return
	}
	m.SetPosition(m.Position().Add(common.Up.Mul(step)))
	q := l.query()
	q.Forward = l.current.Facing()
	found, ok := l.deps.Probe.FindLadder(q, false)
	if !ok {
		// ran off either end
		inst.Stop(ability.Instigator(NameLadder))
		return
	}
	l.current = found
}

func (l *Ladder) OnStop(*ability.Instance) {
	l.deps.Mover.SetGravityEnabled(true)
	l.current = probe.Ledge{}
}

func (l *Ladder) Bind(d Deps) (ability.Behavior, error) {
	return NewLadder(d, l.params)
}

func (l *Ladder) Clone() ability.Behavior {
	return &Ladder{deps: l.deps, params: l.params}
}
