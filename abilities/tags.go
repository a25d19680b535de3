package abilities

import (
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/tag"
)

const (
	NameLocomotion = "locomotion"
	NameJump       = "jump"
	NameClimb      = "climb"
	NameLadder     = "ladder"
	NameStamina    = "stamina"
	NameExhausted  = "exhausted"
	NameScript     = "script"
)

const (
	TagGrounded    tag.Tag = "Movement.Grounded"
	TagAir         tag.Tag = "Movement.Air"
	TagAirJump     tag.Tag = "Movement.Air.Jump"
	TagClimb       tag.Tag = "Movement.Climb"
	TagClimbLedge  tag.Tag = "Movement.Climb.Ledge"
	TagClimbLadder tag.Tag = "Movement.Climb.Ladder"
	TagDrain       tag.Tag = "Status.Drain"
	TagExhausted   tag.Tag = "Status.Exhausted"
)

// Animation states and audio cues the abilities use.
const (
	AnimIdle      = "idle"
	AnimRun       = "run"
	AnimJump      = "jump"
	AnimHang      = "hang"
	AnimBrace     = "brace"
	AnimShimmy    = "shimmy"
	AnimClimbUp   = "climb_up"
	AnimLadder    = "ladder"
	AnimExhausted = "exhausted"

	CueJump      = "jump"
	CueGrab      = "grab"
	CueCorner    = "corner"
	CueClimbUp   = "climb_up"
	CueDrop      = "drop"
	CueExhausted = "exhausted"
)

// DefaultTags returns the stock gating for a built-in ability name.
func DefaultTags(name string) ability.Tags {
	switch name {
	case NameLocomotion:
		return ability.Tags{
			Activation: tag.NewSet(TagGrounded),
			Blocking:   tag.NewSet(TagClimb, TagAirJump),
		}
	case NameJump:
		return ability.Tags{
			Activation: tag.NewSet(TagAir, TagAirJump),
			Required:   tag.NewSet(TagGrounded),
			Blocking:   tag.NewSet(TagClimb),
			CancelWith: tag.NewSet(TagGrounded),
		}
	case NameClimb:
		return ability.Tags{
			Activation: tag.NewSet(TagClimb, TagClimbLedge),
			Blocking:   tag.NewSet(TagExhausted, TagClimbLadder),
			CancelWith: tag.NewSet(TagAir, TagGrounded),
		}
	case NameLadder:
		return ability.Tags{
			Activation: tag.NewSet(TagClimb, TagClimbLadder),
			Blocking:   tag.NewSet(TagExhausted, TagClimbLedge),
			CancelWith: tag.NewSet(TagAir, TagGrounded),
		}
	case NameStamina:
		return ability.Tags{
			Activation: tag.NewSet(TagDrain),
		}
	case NameExhausted:
		return ability.Tags{
			Activation: tag.NewSet(TagExhausted),
			CancelWith: tag.NewSet(TagClimb),
		}
	}
	return ability.Tags{}
}
