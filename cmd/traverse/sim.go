package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/abilities"
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/actor"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/collision/boxworld"
	"github.com/milk9111/traverse/collision/cpworld"
	"github.com/milk9111/traverse/config"
	"github.com/milk9111/traverse/debugdraw"
	"github.com/milk9111/traverse/jump"
	"github.com/milk9111/traverse/probe"
)

const instigatorHost ability.Instigator = "traverse"

// sim is one character in one level, stepped at a fixed rate.
type sim struct {
	level config.LevelSpec
	spec  config.CharacterSpec

	world    collision.World
	boxes    *boxworld.World
	side     *cpworld.World
	surfaces []*collision.Surface

	body  *actor.Body
	anim  *actor.Timeline
	input *actor.Input
	voice actor.Voice
	sink  debugdraw.Sink

	sched *ability.Scheduler
	probe *probe.Probe
	pred  *jump.Predictor

	t float64
}

func newSim(spec config.CharacterSpec, level config.LevelSpec, backend string, voice actor.Voice, sink debugdraw.Sink) (*sim, error) {
	s := &sim{level: level, input: &actor.Input{}, voice: voice, sink: debugdraw.OrNop(sink)}

	var err error
	switch backend {
	case "", "box":
		s.boxes = boxworld.New()
		s.world = s.boxes
		s.surfaces, err = level.Build(s.boxes)
	case "cp":
		s.side = cpworld.New()
		s.world = s.side
		s.surfaces, err = level.BuildSide(s.side)
	default:
		return nil, fmt.Errorf("traverse: unknown backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	s.sched = ability.NewScheduler()
	s.body = actor.NewBody(s.world, spec.BodyConfig(level.Spawn.Vec()))
	s.body.SetRotation(level.SpawnRotation())
	if err := s.apply(spec); err != nil {
		return nil, err
	}
	return s, nil
}

// apply (re)builds the roster from spec and retunes the probe and predictor.
// Running abilities are stopped and blocked surfaces forgotten first.
func (s *sim) apply(spec config.CharacterSpec) error {
	pp, err := spec.ProbeParams()
	if err != nil {
		return err
	}
	jp, err := spec.JumpParams()
	if err != nil {
		return err
	}
	if s.probe == nil {
		s.probe = probe.New(s.world, pp, s.sched, s.sink)
		s.pred = jump.New(s.world, s.probe, jp, s.sink)
	} else {
		s.probe.SetParams(pp)
		s.probe.ClearBlocks()
		s.pred.SetParams(jp)
	}
	s.anim = actor.NewTimeline(spec.Clips()...)

	deps := abilities.Deps{
		Mover:     s.body,
		Animator:  s.anim,
		Voice:     s.voice,
		Input:     s.input,
		Probe:     s.probe,
		Predictor: s.pred,
	}
	defs, err := spec.Definitions(deps, config.LoadScript)
	if err != nil {
		return err
	}

	for _, inst := range s.sched.Instances() {
		s.sched.Unregister(inst.Name(), instigatorHost)
	}
	s.body.SetGravityEnabled(true)
	if err := abilities.RegisterAll(s.sched, defs, deps, instigatorHost); err != nil {
		return err
	}
	s.spec = spec
	s.logEvents()
	return nil
}

func (s *sim) reload(path string) {
	spec, err := config.LoadCharacter(path)
	if err != nil {
		log.Printf("traverse: reload %s: %v", path, err)
		return
	}
	if err := s.apply(spec); err != nil {
		log.Printf("traverse: reload %s: %v", path, err)
		return
	}
	log.Printf("traverse: reloaded %s", path)
}

// step advances one frame and returns the scheduler events it produced.
// extra is merged into the scripted input.
func (s *sim) step(dt float64, extra actor.Input) []ability.Event {
	in := s.level.InputAt(s.t, *s.input)
	in.MoveX += extra.MoveX
	in.MoveZ += extra.MoveZ
	in.Jump = in.Jump || extra.Jump
	in.JumpPressed = in.JumpPressed || extra.JumpPressed
	in.Drop = in.Drop || extra.Drop
	in.Climb = in.Climb || extra.Climb
	*s.input = in

	abilities.HandleInput(s.sched, in)
	s.body.Step(dt)
	s.anim.Advance(dt)
	s.sched.Tick(dt)
	s.t += dt
	return s.logEvents()
}

func (s *sim) logEvents() []ability.Event {
	events := s.sched.Events().Drain()
	for _, e := range events {
		log.Printf("traverse: t=%.2f %s %s (by %s) at %s", e.Time, e.Ability, e.Type, e.Instigator, fmtVec(s.body.Position()))
	}
	return events
}

// run steps the level headless for its duration.
func (s *sim) run(w *config.Watcher, configPath string) {
	dt := s.level.Step
	if dt <= 0 {
		dt = 1.0 / 60
	}
	for s.t < s.level.Duration {
		if w != nil {
			drainWatcher(w, s, configPath)
		}
		s.step(dt, actor.Input{})
	}
	log.Printf("traverse: done t=%.2f at %s running [%s] tags %s",
		s.t, fmtVec(s.body.Position()), strings.Join(s.sched.Running(), " "), s.sched.ActiveTags())
}

func drainWatcher(w *config.Watcher, s *sim, configPath string) {
	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return
			}
			s.reload(configPath)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("traverse: watch: %v", err)
		default:
			return
		}
	}
}

func fmtVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z())
}
