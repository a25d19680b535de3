package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides are tuning knobs read from the environment after the files.
type EnvOverrides struct {
	Gravity    *float64 `env:"TRAVERSE_GRAVITY"`
	WalkSpeed  *float64 `env:"TRAVERSE_WALK_SPEED"`
	JumpMode   *string  `env:"TRAVERSE_JUMP_MODE"`
	JumpHeight *float64 `env:"TRAVERSE_JUMP_MAX_HEIGHT"`
	StaminaMax *float64 `env:"TRAVERSE_STAMINA_MAX"`
	// Disable removes abilities from the roster by name.
	Disable []string `env:"TRAVERSE_DISABLE" envSeparator:","`
}

// ApplyEnv overlays EnvOverrides onto spec.
func ApplyEnv(spec *CharacterSpec) error {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	o.Apply(spec)
	return nil
}

func (o EnvOverrides) Apply(spec *CharacterSpec) {
	if o.Gravity != nil {
		spec.Gravity = *o.Gravity
	}
	if o.WalkSpeed != nil {
		spec.Movement.WalkSpeed = *o.WalkSpeed
	}
	if o.JumpMode != nil {
		spec.Jump.Mode = *o.JumpMode
	}
	if o.JumpHeight != nil {
		spec.Jump.Trajectory.MaxHeight = *o.JumpHeight
	}
	if o.StaminaMax != nil {
		spec.Stamina.Max = *o.StaminaMax
	}
	if len(o.Disable) > 0 {
		spec.Abilities = slices.DeleteFunc(spec.Abilities, func(a AbilitySpec) bool {
			return slices.Contains(o.Disable, a.Name)
		})
	}
}
