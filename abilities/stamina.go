package abilities

import (
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/common"
)

// Stamina drains while any climbing tag is active and refills otherwise.
// Running dry while climbing starts the exhausted ability.
type Stamina struct {
	deps    Deps
	params  StaminaParams
	current float64
}

func NewStamina(d Deps, p StaminaParams) (*Stamina, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Stamina{deps: d.resolved(), params: p, current: p.Max}, nil
}

func (s *Stamina) Current() float64 { return s.current }

func (s *Stamina) CanActivate(*ability.Instance) bool { return true }

func (s *Stamina) OnStart(*ability.Instance) {}

func (s *Stamina) Update(inst *ability.Instance, dt float64) {
	owner := inst.Owner()
	climbing := owner.ActiveTags().Has(TagClimb)
	if climbing {
		s.current -= s.params.DrainRate * dt
	} else {
		s.current += s.params.RegenRate * dt
	}
	s.current = common.Clamp(s.current, 0, s.params.Max)
	if climbing && s.current <= 0 {
		owner.StartByName(NameExhausted, ability.Instigator(NameStamina))
	}
}

func (s *Stamina) OnStop(*ability.Instance) {}

func (s *Stamina) Bind(d Deps) (ability.Behavior, error) {
	return NewStamina(d, s.params)
}

func (s *Stamina) Clone() ability.Behavior {
	return &Stamina{deps: s.deps, params: s.params, current: s.params.Max}
}

// Exhausted knocks the character off whatever it climbs and keeps it off
// until it recovers.
type Exhausted struct {
	deps   Deps
	params ExhaustedParams
}

func NewExhausted(d Deps, p ExhaustedParams) (*Exhausted, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Exhausted{deps: d.resolved(), params: p}, nil
}

func (e *Exhausted) CanActivate(*ability.Instance) bool { return true }

func (e *Exhausted) OnStart(*ability.Instance) {
	e.deps.Animator.Play(AnimExhausted)
	e.deps.Voice.Play(CueExhausted)
}

func (e *Exhausted) Update(inst *ability.Instance, _ float64) {
	if inst.Elapsed() >= e.params.RecoverTime {
		inst.Stop(ability.Instigator(NameExhausted))
	}
}

func (e *Exhausted) OnStop(*ability.Instance) {}

func (e *Exhausted) Bind(d Deps) (ability.Behavior, error) {
	return NewExhausted(d, e.params)
}

func (e *Exhausted) Clone() ability.Behavior {
	c := *e
	return &c
}
