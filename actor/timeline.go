package actor

import "github.com/milk9111/traverse/common"

// Clip describes one pose state, timed like a sprite strip.
type Clip struct {
	Name       string
	FrameCount int
	FPS        float64
	Loop       bool
	// BlendTime is how long the state takes to fully blend in.
	BlendTime float64
}

func (c Clip) Duration() float64 {
	if c.FPS <= 0 {
		return 0
	}
	return float64(c.FrameCount) / c.FPS
}

// Timeline is a clock-driven Animator. Unknown states play for zero time and
// report finished immediately.
type Timeline struct {
	Defs    map[string]Clip
	current string
	elapsed float64
	started bool
}

func NewTimeline(clips ...Clip) *Timeline {
	defs := make(map[string]Clip, len(clips))
	for _, c := range clips {
		defs[c.Name] = c
	}
	return &Timeline{Defs: defs}
}

func (t *Timeline) Play(state string) {
	t.current = state
	t.elapsed = 0
	t.started = true
}

func (t *Timeline) Current() string { return t.current }

// Frame returns the current frame index of the active clip.
func (t *Timeline) Frame() int {
	c, ok := t.Defs[t.current]
	if !ok || c.FrameCount == 0 {
		return 0
	}
	f := int(t.elapsed * c.FPS)
	if c.Loop {
		return f % c.FrameCount
	}
	if f >= c.FrameCount {
		return c.FrameCount - 1
	}
	return f
}

func (t *Timeline) Finished() bool {
	if !t.started {
		return true
	}
	c, ok := t.Defs[t.current]
	if !ok {
		return true
	}
	return !c.Loop && t.elapsed >= c.Duration()
}

func (t *Timeline) BlendWeight() float64 {
	c, ok := t.Defs[t.current]
	if !ok || c.BlendTime <= 0 {
		return 1
	}
	return common.Clamp(t.elapsed/c.BlendTime, 0, 1)
}

func (t *Timeline) Advance(dt float64) {
	if dt > 0 {
		t.elapsed += dt
	}
}
