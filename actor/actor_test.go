package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/collision/boxworld"
)

func groundWorld() *boxworld.World {
	w := boxworld.New()
	w.AddBox(boxworld.BoxSpec{Name: "ground", Center: mgl64.Vec3{0, -0.5, 0}, Size: mgl64.Vec3{20, 1, 20}})
	return w
}

func TestBodyFallsAndLands(t *testing.T) {
	b := NewBody(groundWorld(), BodyConfig{Position: mgl64.Vec3{0, 2, 0}, Height: 1.8, Radius: 0.3, Gravity: -20})

	b.Step(1.0 / 60)
	if !b.IsFalling() || b.IsGrounded() {
		t.Fatalf("expected falling after the first step")
	}
	for i := 0; i < 60; i++ {
		b.Step(1.0 / 60)
	}
	if !b.IsGrounded() || b.IsFalling() {
		t.Fatalf("expected grounded, got grounded=%v falling=%v", b.IsGrounded(), b.IsFalling())
	}
	if y := b.Position().Y(); y < 0 || y > 0.02 {
		t.Fatalf("expected to rest on the ground, got y=%v", y)
	}
	if b.Velocity().Y() != 0 {
		t.Fatalf("expected vertical velocity cleared, got %v", b.Velocity())
	}
}

func TestBodyStopsAndSlidesOnWall(t *testing.T) {
	w := groundWorld()
	w.AddBox(boxworld.BoxSpec{Name: "wall", Center: mgl64.Vec3{2, 1, 0}, Size: mgl64.Vec3{1, 2, 10}})
	b := NewBody(w, BodyConfig{Position: mgl64.Vec3{0, skin, 0}, Height: 1.8, Radius: 0.3, Gravity: -20})
	b.SetVelocity(mgl64.Vec3{3, 0, 1})

	for i := 0; i < 60; i++ {
		b.Step(1.0 / 60)
	}
	p := b.Position()
	if p.X() > 1.2 || p.X() < 1.1 {
		t.Fatalf("expected to stop against the wall, got x=%v", p.X())
	}
	if math.Abs(b.Velocity().X()) > 1e-9 {
		t.Fatalf("expected velocity into the wall removed, got %v", b.Velocity())
	}
	if p.Z() < 0.9 {
		t.Fatalf("expected to keep sliding along the wall, got z=%v", p.Z())
	}
	if !b.IsGrounded() {
		t.Fatalf("expected to stay grounded")
	}
}

func TestBodyGravityDisabled(t *testing.T) {
	b := NewBody(groundWorld(), BodyConfig{Position: mgl64.Vec3{0, 3, 0}, Height: 1.8, Radius: 0.3, Gravity: -20})
	b.SetGravityEnabled(false)
	for i := 0; i < 30; i++ {
		b.Step(1.0 / 60)
	}
	if b.Position().Y() != 3 || b.IsFalling() {
		t.Fatalf("expected to hang in place, got %v falling=%v", b.Position(), b.IsFalling())
	}
}

func TestTimeline(t *testing.T) {
	tl := NewTimeline(
		Clip{Name: "climb_up", FrameCount: 6, FPS: 12, BlendTime: 0.1},
		Clip{Name: "hang", FrameCount: 4, FPS: 8, Loop: true},
	)

	if !tl.Finished() {
		t.Fatalf("expected an idle timeline to be finished")
	}
	tl.Play("climb_up")
	if tl.Finished() || tl.BlendWeight() != 0 {
		t.Fatalf("expected a fresh clip to be running and unblended")
	}
	tl.Advance(0.05)
	if w := tl.BlendWeight(); math.Abs(w-0.5) > 1e-9 {
		t.Fatalf("expected half blended, got %v", w)
	}
	tl.Advance(0.5)
	if !tl.Finished() || tl.Frame() != 5 {
		t.Fatalf("expected finished on the last frame, got finished=%v frame=%d", tl.Finished(), tl.Frame())
	}

	tl.Play("hang")
	tl.Advance(1.25)
	if tl.Finished() || tl.Frame() != 2 {
		t.Fatalf("expected looping clip on frame 2, got finished=%v frame=%d", tl.Finished(), tl.Frame())
	}
	if tl.BlendWeight() != 1 {
		t.Fatalf("expected full weight without blend time")
	}

	tl.Play("missing")
	if !tl.Finished() || tl.Current() != "missing" {
		t.Fatalf("expected unknown state to finish immediately")
	}
}

func TestInputMove(t *testing.T) {
	cases := []struct {
		name   string
		in     Input
		length float64
		moving bool
	}{
		{"idle", Input{}, 0, false},
		{"dead_zone", Input{MoveX: 0.05}, 0.05, false},
		{"half", Input{MoveZ: 0.5}, 0.5, true},
		{"diagonal_clamped", Input{MoveX: 1, MoveZ: 1}, 1, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if l := c.in.Move().Len(); math.Abs(l-c.length) > 1e-9 {
				t.Fatalf("expected length %v, got %v", c.length, l)
			}
			if c.in.Moving() != c.moving {
				t.Fatalf("expected moving=%v", c.moving)
			}
		})
	}
}

func TestVoiceOrNop(t *testing.T) {
	if _, ok := VoiceOrNop(nil).(NopVoice); !ok {
		t.Fatalf("expected NopVoice for nil")
	}
	VoiceOrNop(nil).Play("grunt")
}
