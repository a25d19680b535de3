package abilities

import (
	"fmt"

	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/actor"
)

// Builtin names the stock abilities in their default roster order.
var Builtin = []string{NameLocomotion, NameJump, NameClimb, NameLadder, NameStamina, NameExhausted}

// DefaultAutoStart reports whether a built-in ability starts itself.
func DefaultAutoStart(name string) bool {
	switch name {
	case NameLocomotion, NameClimb, NameStamina:
		return true
	}
	return false
}

// NewBehavior builds the built-in behaviour called kind.
func NewBehavior(kind string, d Deps, p Params) (ability.Behavior, error) {
	switch kind {
	case NameLocomotion:
		return NewLocomotion(d, p.Locomotion)
	case NameJump:
		return NewJump(d, p.Jump)
	case NameClimb:
		return NewClimb(d, p.Climb)
	case NameLadder:
		return NewLadder(d, p.Ladder)
	case NameStamina:
		return NewStamina(d, p.Stamina)
	case NameExhausted:
		return NewExhausted(d, p.Exhausted)
	}
	return nil, fmt.Errorf("abilities: unknown ability kind %q", kind)
}

// Standard returns definitions for every built-in ability with stock tags.
func Standard(d Deps, p Params) ([]ability.Definition, error) {
	defs := make([]ability.Definition, 0, len(Builtin))
	for _, name := range Builtin {
		b, err := NewBehavior(name, d, p)
		if err != nil {
			return nil, err
		}
		defs = append(defs, ability.Definition{
			Name:      name,
			Tags:      DefaultTags(name),
			AutoStart: DefaultAutoStart(name),
			Behavior:  b,
		})
	}
	return defs, nil
}

// Binder is a behaviour that can be rebuilt around another character's
// collaborators.
type Binder interface {
	Bind(d Deps) (ability.Behavior, error)
}

// RegisterAll binds defs to d and registers them on s in order, so one roster
// can serve many characters. Behaviours that are not Binders are registered
// as they are. Nothing is registered when a bind fails.
func RegisterAll(s *ability.Scheduler, defs []ability.Definition, d Deps, instigator ability.Instigator) error {
	if err := d.Validate(); err != nil {
		return err
	}
	bound := make([]ability.Definition, 0, len(defs))
	for _, def := range defs {
		if b, ok := def.Behavior.(Binder); ok {
			behavior, err := b.Bind(d)
			if err != nil {
				return fmt.Errorf("abilities: bind %s: %w", def.Name, err)
			}
			def.Behavior = behavior
		}
		bound = append(bound, def)
	}
	for _, def := range bound {
		s.Register(def, instigator)
	}
	return nil
}

// HandleInput turns edge-triggered input into ability requests.
func HandleInput(s *ability.Scheduler, in actor.Input) {
	if in.JumpPressed {
		s.StartByName(NameJump, "input")
	}
	if in.Climb && !s.ActiveTags().Has(TagClimb) {
		s.StartByName(NameLadder, "input")
	}
}
