// Package actor holds the collaborators abilities drive: movement, animation,
// audio cues and per-frame input.
package actor

import "github.com/go-gl/mathgl/mgl64"

// Mover moves the character. Position is the feet.
type Mover interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	CapsuleHeight() float64
	CapsuleRadius() float64
	IsGrounded() bool
	IsFalling() bool
	// Gravity is the signed acceleration along Y.
	Gravity() float64
	SetGravityEnabled(enabled bool)
}

// Animator plays named pose states.
type Animator interface {
	Play(state string)
	Current() string
	Finished() bool
	BlendWeight() float64
}

// Voice fires audio cues and forgets about them.
type Voice interface {
	Play(cue string)
}

type NopVoice struct{}

func (NopVoice) Play(string) {}

// VoiceOrNop returns v, or NopVoice when v is nil.
func VoiceOrNop(v Voice) Voice {
	if v == nil {
		return NopVoice{}
	}
	return v
}

// Input stores per-frame input state. The host writes it before each tick.
type Input struct {
	MoveX       float64
	MoveZ       float64
	Jump        bool
	JumpPressed bool
	Drop        bool
	Climb       bool
}

// Move returns the desired horizontal direction, at most unit length.
func (in Input) Move() mgl64.Vec3 {
	v := mgl64.Vec3{in.MoveX, 0, in.MoveZ}
	if v.Len() > 1 {
		return v.Normalize()
	}
	return v
}

// Moving reports whether the stick is past a small dead zone.
func (in Input) Moving() bool {
	return in.Move().Len() > 0.1
}
