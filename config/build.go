package config

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/abilities"
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/actor"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/jump"
	"github.com/milk9111/traverse/probe"
	"github.com/milk9111/traverse/tag"
	"github.com/milk9111/traverse/trajectory"
)

var layerNames = map[string]collision.Layer{
	"default":     collision.LayerDefault,
	"climbable":   collision.LayerClimbable,
	"ladder":      collision.LayerLadder,
	"destination": collision.LayerDestination,
	"blocking":    collision.LayerBlocking,
	"all":         collision.LayerAll,
}

// ParseLayer maps a layer name to its bit. The empty name is the default
// layer.
func ParseLayer(name string) (collision.Layer, error) {
	if name == "" {
		return collision.LayerDefault, nil
	}
	l, ok := layerNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("config: unknown layer %q", name)
	}
	return l, nil
}

// ParseMask ORs a list of layer names.
func ParseMask(names []string) (collision.Layer, error) {
	var mask collision.Layer
	for _, n := range names {
		l, err := ParseLayer(n)
		if err != nil {
			return 0, err
		}
		mask |= l
	}
	return mask, nil
}

func tags(names []string) tag.Set {
	return tag.Parse(names)
}

func (c CharacterSpec) ProbeParams() (probe.Params, error) {
	p := c.Probe
	climb, err := ParseMask(p.ClimbLayers)
	if err != nil {
		return probe.Params{}, err
	}
	ladder, err := ParseMask(p.LadderLayers)
	if err != nil {
		return probe.Params{}, err
	}
	blocking, err := ParseMask(p.BlockingLayers)
	if err != nil {
		return probe.Params{}, err
	}
	return probe.Params{
		CapsuleHeight:      c.Capsule.Height,
		CapsuleRadius:      c.Capsule.Radius,
		CastRadius:         p.CastRadius,
		ForwardDistance:    p.ForwardDistance,
		ReachHeight:        p.ReachHeight,
		MinGrabHeight:      p.MinGrabHeight,
		TopSampleCount:     p.TopSampleCount,
		TopSampleStep:      p.TopSampleStep,
		MaxTopAngle:        p.MaxTopAngle,
		Hang:               probe.Offset{Back: p.Hang.Back, Down: p.Hang.Down},
		Brace:              probe.Offset{Back: p.Brace.Back, Down: p.Brace.Down},
		BraceFootDepth:     p.BraceFootDepth,
		BraceCheckDistance: p.BraceCheckDistance,
		RadialSamples:      p.RadialSamples,
		BroadPhaseRadius:   p.BroadPhaseRadius,
		JumpFanHalfCount:   p.JumpFanHalfCount,
		JumpFanSpacing:     p.JumpFanSpacing,
		JumpSearchDistance: p.JumpSearchDistance,
		JumpAcceptAngle:    p.JumpAcceptAngle,
		ShimmyStep:         p.ShimmyStep,
		ShimmyMaxAngle:     p.ShimmyMaxAngle,
		CornerDistance:     p.CornerDistance,
		CornerSideOffset:   p.CornerSideOffset,
		CornerForward:      p.CornerForward,
		ClimbableTags:      tags(p.ClimbableTags),
		LadderTags:         tags(p.LadderTags),
		ClimbMask:          climb,
		LadderMask:         ladder,
		BlockingMask:       blocking,
	}, nil
}

func (c CharacterSpec) JumpParams() (jump.Params, error) {
	j := c.Jump
	mode, err := trajectory.ParseMode(j.Mode)
	if err != nil {
		return jump.Params{}, fmt.Errorf("config: jump mode: %w", err)
	}
	dest, err := ParseMask(j.DestinationLayers)
	if err != nil {
		return jump.Params{}, err
	}
	return jump.Params{
		Trajectory: trajectory.Params{
			MaxHeight:          j.Trajectory.MaxHeight,
			MinHeight:          j.Trajectory.MinHeight,
			MaxHorizontalSpeed: j.Trajectory.MaxHorizontalSpeed,
			Gravity:            c.Gravity,
		},
		Mode:                mode,
		SearchRadius:        j.SearchRadius,
		AcceptAngle:         j.AcceptAngle,
		MinDistance:         j.MinDistance,
		MaxDrop:             j.MaxDrop,
		ElevationWeight:     j.ElevationWeight,
		RedundantAngle:      j.RedundantAngle,
		NormalJumpSpeed:     c.Movement.JumpSpeed,
		NormalJumpHeight:    c.Movement.JumpHeight,
		NormalJumpTolerance: j.NormalJumpTolerance,
		ArcSamples:          j.ArcSamples,
		DestinationTags:     tags(j.DestinationTags),
		DestinationMask:     dest,
	}, nil
}

func (c CharacterSpec) AbilityParams() abilities.Params {
	m := c.Movement
	return abilities.Params{
		Locomotion: abilities.LocomotionParams{Speed: m.WalkSpeed},
		Jump: abilities.JumpParams{
			Speed:       m.JumpSpeed,
			Height:      m.JumpHeight,
			MinAirTime:  m.MinAirTime,
			AssistGrace: m.AssistGrace,
		},
		Climb: abilities.ClimbParams{
			ShimmySpeed:    m.ShimmySpeed,
			CornerCooldown: m.CornerCooldown,
			ClimbUpForward: m.ClimbUpForward,
			RegrabBlock:    m.RegrabBlock,
			CatchDistance:  m.CatchDistance,
		},
		Ladder: abilities.LadderParams{
			Speed:         m.LadderSpeed,
			Gap:           m.LadderGap,
			AllowSideways: m.LadderSideways,
			JumpOffSpeed:  m.LadderJumpOff,
		},
		Stamina: abilities.StaminaParams{
			Max:       c.Stamina.Max,
			DrainRate: c.Stamina.DrainRate,
			RegenRate: c.Stamina.RegenRate,
		},
		Exhausted: abilities.ExhaustedParams{RecoverTime: c.Stamina.RecoverTime},
	}
}

// BodyConfig places the character's capsule at feet.
func (c CharacterSpec) BodyConfig(feet mgl64.Vec3) actor.BodyConfig {
	return actor.BodyConfig{
		Position: feet,
		Height:   c.Capsule.Height,
		Radius:   c.Capsule.Radius,
		Gravity:  c.Gravity,
	}
}

func (c CharacterSpec) Clips() []actor.Clip {
	out := make([]actor.Clip, 0, len(c.Animations))
	for _, a := range c.Animations {
		out = append(out, actor.Clip{
			Name:       a.Name,
			FrameCount: a.Frames,
			FPS:        a.FPS,
			Loop:       a.Loop,
			BlendTime:  a.Blend,
		})
	}
	return out
}

func (t *TagsSpec) abilityTags() ability.Tags {
	return ability.Tags{
		Activation: tags(t.Activation),
		Required:   tags(t.Required),
		Blocking:   tags(t.Blocking),
		CancelWith: tags(t.CancelWith),
	}
}

// ScriptLoader reads a tengo script by the name used in an ability spec.
type ScriptLoader func(name string) ([]byte, error)

// Definitions builds the ability roster in file order.
func (c CharacterSpec) Definitions(d abilities.Deps, load ScriptLoader) ([]ability.Definition, error) {
	if load == nil {
		load = LoadScript
	}
	params := c.AbilityParams()
	seen := make(map[string]bool, len(c.Abilities))
	defs := make([]ability.Definition, 0, len(c.Abilities))
	for _, a := range c.Abilities {
		if seen[a.Name] {
			return nil, fmt.Errorf("config: ability %q listed twice", a.Name)
		}
		seen[a.Name] = true

		def := ability.Definition{
			Name:      a.Name,
			Tags:      abilities.DefaultTags(a.Kind),
			AutoStart: abilities.DefaultAutoStart(a.Kind),
		}
		if a.Tags != nil {
			def.Tags = a.Tags.abilityTags()
		}
		if a.AutoStart != nil {
			def.AutoStart = *a.AutoStart
		}

		if a.Kind == abilities.NameScript {
			src, err := load(a.Script)
			if err != nil {
				return nil, fmt.Errorf("config: ability %s: %w", a.Name, err)
			}
			b, err := abilities.NewScript(d, a.Name, src)
			if err != nil {
				return nil, err
			}
			def.Behavior = b
		} else {
			b, err := abilities.NewBehavior(a.Kind, d, params)
			if err != nil {
				return nil, fmt.Errorf("config: ability %s: %w", a.Name, err)
			}
			def.Behavior = b
		}
		defs = append(defs, def)
	}
	return defs, nil
}
