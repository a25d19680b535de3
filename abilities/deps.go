// Package abilities holds the concrete traversal abilities. Each is an
// ability.Behavior composed from injected collaborators rather than a
// subclass of a shared climbing base.
package abilities

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/actor"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/jump"
	"github.com/milk9111/traverse/probe"
)

var (
	ErrNoMover     = errors.New("abilities: mover is required")
	ErrNoProbe     = errors.New("abilities: probe is required")
	ErrNoPredictor = errors.New("abilities: jump predictor is required")
)

// Deps are the collaborators shared by one character's abilities. Mover is
// required; a missing Animator, Voice or Input degrades to a no-op.
type Deps struct {
	Mover     actor.Mover
	Animator  actor.Animator
	Voice     actor.Voice
	Input     *actor.Input
	Probe     *probe.Probe
	Predictor *jump.Predictor
}

func (d Deps) Validate() error {
	if d.Mover == nil {
		return ErrNoMover
	}
	return nil
}

func (d Deps) resolved() Deps {
	if d.Animator == nil {
		d.Animator = nopAnimator{}
	}
	d.Voice = actor.VoiceOrNop(d.Voice)
	if d.Input == nil {
		d.Input = &actor.Input{}
	}
	return d
}

func (d Deps) facing() mgl64.Vec3 {
	f := common.HorizontalDir(common.FacingOf(d.Mover.Rotation()))
	if f.Len() == 0 {
		return common.Forward
	}
	return f
}

func (d Deps) play(state string) {
	if d.Animator.Current() != state {
		d.Animator.Play(state)
	}
}

type nopAnimator struct{}

func (nopAnimator) Play(string)          {}
func (nopAnimator) Current() string      { return "" }
func (nopAnimator) Finished() bool       { return true }
func (nopAnimator) BlendWeight() float64 { return 1 }
