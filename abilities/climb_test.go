package abilities

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/collision/boxworld"
	"github.com/milk9111/traverse/tag"
)

// hangingRig drops a body next to a 2m wall with no floor below; the climb
// ability grabs on the first frame.
func hangingRig(t *testing.T, tune func(*Params)) (*rig, *collision.Surface) {
	t.Helper()
	w := boxworld.New()
	wall := climbable(w, "wall", mgl64.Vec3{0, 1, 2}, mgl64.Vec3{4, 2, 1})
	r := newRig(t, w, mgl64.Vec3{0, 0.6, 0.9}, tune)
	r.frame()
	if !r.sched.IsRunning(NameClimb) {
		t.Fatalf("expected falling body to grab the wall, got %v", r.sched.Running())
	}
	return r, wall
}

func TestFallingBodyGrabsLedge(t *testing.T) {
	r, wall := hangingRig(t, nil)

	c, _ := ability.Find[*Climb](r.sched, NameClimb)
	l, ok := c.Current()
	if !ok || l.Surface != wall {
		t.Fatalf("expected to hold the wall, got %+v", l)
	}
	if got := r.body.Position(); got.Sub(mgl64.Vec3{0, 0.4, 1.1}).Len() > 1e-6 {
		t.Fatalf("expected braced pose, got %v", got)
	}
	if r.body.GravityEnabled() {
		t.Fatalf("expected gravity off while hanging")
	}
	if !r.sched.ActiveTags().Has(TagClimbLedge) {
		t.Fatalf("expected ledge tag, got %v", r.sched.ActiveTags())
	}
	if r.anim.Current() != AnimBrace || !slices.Contains(r.voice.cues, CueGrab) {
		t.Fatalf("expected brace animation and grab cue, got %q %v", r.anim.Current(), r.voice.cues)
	}

	r.frames(5)
	if got := r.body.Position(); got.Sub(mgl64.Vec3{0, 0.4, 1.1}).Len() > 1e-6 {
		t.Fatalf("expected to stay put while hanging, got %v", got)
	}
}

func TestShimmyAndClimbUp(t *testing.T) {
	r, _ := hangingRig(t, nil)

	r.in.MoveX = 1
	r.frames(10)
	if x := r.body.Position().X(); !near(x, 10*dt*1.5) {
		t.Fatalf("expected shimmy to %v, got %v", 10*dt*1.5, x)
	}
	if r.anim.Current() != AnimShimmy {
		t.Fatalf("expected shimmy animation, got %q", r.anim.Current())
	}

	r.in.MoveX = 0
	r.in.Climb = true
	r.anim.finished = false
	r.frame()
	if !r.sched.IsRunning(NameClimb) || r.anim.Current() != AnimClimbUp {
		t.Fatalf("expected climb up to wait for the animation, got %v %q", r.sched.Running(), r.anim.Current())
	}
	r.frame()
	if !r.sched.IsRunning(NameClimb) {
		t.Fatalf("expected climb to wait while the animation plays")
	}

	r.anim.finished = true
	r.frame()
	if r.sched.IsRunning(NameClimb) {
		t.Fatalf("expected climb to end after climbing up")
	}
	want := mgl64.Vec3{10 * dt * 1.5, 2.01, 2}
	if got := r.body.Position(); got.Sub(want).Len() > 1e-6 {
		t.Fatalf("expected to stand on top at %v, got %v", want, got)
	}

	r.in.Climb = false
	r.frames(3)
	if !r.sched.IsRunning(NameLocomotion) {
		t.Fatalf("expected locomotion on top of the wall, got %v", r.sched.Running())
	}
}

func TestShimmyTurnsOutsideCorner(t *testing.T) {
	r, wall := hangingRig(t, nil)

	r.in.MoveX = 1
	for i := 0; i < 150 && !slices.Contains(r.voice.cues, CueCorner); i++ {
		r.frame()
	}
	if !slices.Contains(r.voice.cues, CueCorner) {
		t.Fatalf("expected a corner turn, body at %v", r.body.Position())
	}
	c, _ := ability.Find[*Climb](r.sched, NameClimb)
	l, ok := c.Current()
	if !ok || l.Surface != wall {
		t.Fatalf("expected to still hold the wall, got %+v", l)
	}
	if n := l.Normal(); n.Sub(mgl64.Vec3{1, 0, 0}).Len() > 1e-6 {
		t.Fatalf("expected to hang on the side face, got normal %v", n)
	}
	if got := r.body.Position(); got.Sub(mgl64.Vec3{2.4, 0.4, 1.9}).Len() > 1e-6 {
		t.Fatalf("expected side pose, got %v", got)
	}
}

func TestDropBlocksRegrab(t *testing.T) {
	r, wall := hangingRig(t, nil)

	r.in.Drop = true
	r.frame()
	r.in.Drop = false
	if r.sched.IsRunning(NameClimb) {
		t.Fatalf("expected drop to let go")
	}
	c, _ := ability.Find[*Climb](r.sched, NameClimb)
	if !c.Dropped() || !r.probe.IsBlocked(wall) {
		t.Fatalf("expected dropped wall to be blocked")
	}
	if !r.body.GravityEnabled() {
		t.Fatalf("expected gravity back on")
	}

	r.frames(10)
	if r.sched.IsRunning(NameClimb) {
		t.Fatalf("expected no regrab while the wall is blocked, body at %v", r.body.Position())
	}
	if !slices.Contains(r.voice.cues, CueDrop) {
		t.Fatalf("expected drop cue, got %v", r.voice.cues)
	}
}

func TestExhaustionKnocksOffLedge(t *testing.T) {
	r, _ := hangingRig(t, func(p *Params) {
		p.Stamina = StaminaParams{Max: 0.5, DrainRate: 1, RegenRate: 1}
		p.Exhausted = ExhaustedParams{RecoverTime: 2}
	})

	r.frames(40)
	if !r.sched.IsRunning(NameExhausted) {
		t.Fatalf("expected exhaustion, got %v", r.sched.Running())
	}
	if r.sched.IsRunning(NameClimb) {
		t.Fatalf("expected exhaustion to cancel the climb")
	}
	if !r.body.GravityEnabled() {
		t.Fatalf("expected to fall once exhausted")
	}
	if !slices.Contains(r.voice.cues, CueExhausted) {
		t.Fatalf("expected exhausted cue, got %v", r.voice.cues)
	}

	r.frames(5)
	if r.sched.IsRunning(NameClimb) {
		t.Fatalf("expected no grab while exhausted")
	}
}

func TestLadderClimbAndDrop(t *testing.T) {
	w := boxworld.New()
	ground(w)
	w.AddBox(boxworld.BoxSpec{
		Name:   "ladder",
		Tags:   tag.NewSet("Climbable.Ladder"),
		Layer:  collision.LayerLadder,
		Center: mgl64.Vec3{0, 2, 1},
		Size:   mgl64.Vec3{1, 4, 0.2},
	})
	r := newRig(t, w, mgl64.Vec3{0, 0.005, 0}, nil)
	r.frames(2)

	r.in.Climb = true
	r.frame()
	if !r.sched.IsRunning(NameLadder) || r.sched.IsRunning(NameLocomotion) {
		t.Fatalf("expected ladder to replace locomotion, got %v", r.sched.Running())
	}
	if !r.sched.ActiveTags().Has(TagClimbLadder) {
		t.Fatalf("expected ladder tag, got %v", r.sched.ActiveTags())
	}
	start := r.body.Position()
	if !near(start.Z(), 0.9-0.35) {
		t.Fatalf("expected to hug the ladder at z=0.55, got %v", start)
	}

	r.in.MoveZ = 1
	r.frames(30)
	if y := r.body.Position().Y(); !near(y, start.Y()+1) {
		t.Fatalf("expected to climb one metre, got %v", y-start.Y())
	}
	if r.sched.IsRunning(NameClimb) {
		t.Fatalf("expected ledge climb blocked on a ladder")
	}

	r.in.MoveZ = 0
	r.in.Climb = false
	r.in.Drop = true
	r.frame()
	if r.sched.IsRunning(NameLadder) || !r.body.GravityEnabled() {
		t.Fatalf("expected drop to release the ladder")
	}
}
