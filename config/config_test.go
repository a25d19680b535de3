package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/abilities"
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/actor"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/collision/boxworld"
	"github.com/milk9111/traverse/collision/cpworld"
	"github.com/milk9111/traverse/jump"
	"github.com/milk9111/traverse/probe"
)

func TestDefaultCharacterMatchesPackageDefaults(t *testing.T) {
	spec, err := LoadCharacter("")
	if err != nil {
		t.Fatalf("expected default character to load, got %v", err)
	}
	if spec.Name != "climber" {
		t.Fatalf("expected climber, got %q", spec.Name)
	}

	pp, err := spec.ProbeParams()
	if err != nil {
		t.Fatalf("expected probe params, got %v", err)
	}
	if !reflect.DeepEqual(pp, probe.DefaultParams()) {
		t.Fatalf("expected probe defaults, got %+v", pp)
	}
	jp, err := spec.JumpParams()
	if err != nil {
		t.Fatalf("expected jump params, got %v", err)
	}
	if !reflect.DeepEqual(jp, jump.DefaultParams()) {
		t.Fatalf("expected jump defaults, got %+v", jp)
	}
	if ap := spec.AbilityParams(); ap != abilities.DefaultParams() {
		t.Fatalf("expected ability defaults, got %+v", ap)
	}
}

func TestParseCharacterOverlaysDefaults(t *testing.T) {
	spec, err := ParseCharacter("fast.yaml", []byte("movement:\n  walk_speed: 6\njump:\n  mode: highest\n"))
	if err != nil {
		t.Fatalf("expected overlay to parse, got %v", err)
	}
	if spec.Movement.WalkSpeed != 6 || spec.Movement.JumpSpeed != 4 {
		t.Fatalf("expected walk 6 and default jump speed, got %+v", spec.Movement)
	}
	if spec.Jump.Mode != "highest" || spec.Jump.SearchRadius != 8 {
		t.Fatalf("expected highest mode over defaults, got %+v", spec.Jump)
	}
	if len(spec.Abilities) == 0 {
		t.Fatalf("expected default roster to survive an overlay")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		ok   bool
	}{
		{name: "empty", doc: "", ok: true},
		{name: "partial", doc: "gravity: -9.8\n", ok: true},
		{name: "unknown_key", doc: "gravty: -9.8\n", ok: false},
		{name: "bad_mode", doc: "jump:\n  mode: sideways\n", ok: false},
		{name: "negative_radius", doc: "capsule:\n  radius: -1\n", ok: false},
		{name: "bad_layer", doc: "probe:\n  climb_layers: [water]\n", ok: false},
		{name: "ability_without_kind", doc: "abilities:\n  - name: swim\n", ok: false},
		{name: "script_without_path", doc: "abilities:\n  - {name: wave, kind: script}\n", ok: false},
		{name: "script_with_path", doc: "abilities:\n  - {name: wave, kind: script, script: wave.tengo}\n", ok: true},
		{name: "not_yaml", doc: "gravity: [\n", ok: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate([]byte(c.doc))
			if c.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !c.ok && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRAVERSE_GRAVITY", "-9.8")
	t.Setenv("TRAVERSE_JUMP_MODE", "faster")
	t.Setenv("TRAVERSE_DISABLE", "ladder,dash")

	spec, err := LoadCharacter("")
	if err != nil {
		t.Fatalf("expected character to load, got %v", err)
	}
	if spec.Gravity != -9.8 || spec.Jump.Mode != "faster" {
		t.Fatalf("expected env overrides, got gravity=%v mode=%q", spec.Gravity, spec.Jump.Mode)
	}
	for _, a := range spec.Abilities {
		if a.Name == "ladder" || a.Name == "dash" {
			t.Fatalf("expected %s to be disabled", a.Name)
		}
	}
	jp, err := spec.JumpParams()
	if err != nil || jp.Trajectory.Gravity != -9.8 {
		t.Fatalf("expected gravity to reach the solver, got %v %v", jp.Trajectory.Gravity, err)
	}
}

func testDeps(t *testing.T, spec CharacterSpec) abilities.Deps {
	t.Helper()
	w := boxworld.New()
	pp, err := spec.ProbeParams()
	if err != nil {
		t.Fatalf("expected probe params, got %v", err)
	}
	jp, err := spec.JumpParams()
	if err != nil {
		t.Fatalf("expected jump params, got %v", err)
	}
	p := probe.New(w, pp, nil, nil)
	return abilities.Deps{
		Mover:     actor.NewBody(w, spec.BodyConfig(mgl64.Vec3{})),
		Animator:  actor.NewTimeline(spec.Clips()...),
		Probe:     p,
		Predictor: jump.New(w, p, jp, nil),
	}
}

func TestDefinitionsBuildRoster(t *testing.T) {
	spec, err := LoadCharacter("")
	if err != nil {
		t.Fatalf("expected character to load, got %v", err)
	}
	deps := testDeps(t, spec)
	defs, err := spec.Definitions(deps, nil)
	if err != nil {
		t.Fatalf("expected roster, got %v", err)
	}
	if len(defs) != len(spec.Abilities) {
		t.Fatalf("expected %d definitions, got %d", len(spec.Abilities), len(defs))
	}

	byName := map[string]ability.Definition{}
	for _, d := range defs {
		byName[d.Name] = d
	}
	if _, ok := byName["dash"].Behavior.(*abilities.Script); !ok {
		t.Fatalf("expected dash to be a script, got %T", byName["dash"].Behavior)
	}
	if !byName["dash"].Tags.Required.Has(abilities.TagGrounded) {
		t.Fatalf("expected dash tags from the file, got %+v", byName["dash"].Tags)
	}
	climb := byName[abilities.NameClimb]
	if !climb.AutoStart || !reflect.DeepEqual(climb.Tags, abilities.DefaultTags(abilities.NameClimb)) {
		t.Fatalf("expected built-in climb defaults, got %+v", climb)
	}

	s := ability.NewScheduler()
	if err := abilities.RegisterAll(s, defs, deps, "test"); err != nil {
		t.Fatalf("expected roster to register, got %v", err)
	}
	if len(s.Instances()) != len(defs) {
		t.Fatalf("expected every definition registered, got %d", len(s.Instances()))
	}
}

func TestDefinitionsErrors(t *testing.T) {
	base, err := DefaultCharacter()
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}

	cases := []struct {
		name      string
		abilities []AbilitySpec
		load      ScriptLoader
		want      string
	}{
		{
			name:      "duplicate",
			abilities: []AbilitySpec{{Name: "jump", Kind: "jump"}, {Name: "jump", Kind: "jump"}},
			want:      "listed twice",
		},
		{
			name:      "unknown_kind",
			abilities: []AbilitySpec{{Name: "swim", Kind: "swim"}},
			want:      "unknown ability kind",
		},
		{
			name:      "missing_script",
			abilities: []AbilitySpec{{Name: "wave", Kind: "script", Script: "wave.tengo"}},
			load:      func(string) ([]byte, error) { return nil, os.ErrNotExist },
			want:      "wave",
		},
		{
			name:      "broken_script",
			abilities: []AbilitySpec{{Name: "wave", Kind: "script", Script: "wave.tengo"}},
			load:      func(string) ([]byte, error) { return []byte("update := func("), nil },
			want:      "wave",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := base
			spec.Abilities = c.abilities
			_, err := spec.Definitions(testDeps(t, spec), c.load)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error containing %q, got %v", c.want, err)
			}
		})
	}
}

func TestLevelBuild(t *testing.T) {
	l, err := LoadLevel("")
	if err != nil {
		t.Fatalf("expected default level, got %v", err)
	}
	w := boxworld.New()
	surfaces, err := l.Build(w)
	if err != nil {
		t.Fatalf("expected level to build, got %v", err)
	}
	if len(surfaces) != len(l.Boxes) {
		t.Fatalf("expected %d surfaces, got %d", len(l.Boxes), len(surfaces))
	}

	var wall *collision.Surface
	for _, s := range surfaces {
		if s.Name == "wall" {
			wall = s
		}
	}
	if wall == nil || wall.Layer != collision.LayerClimbable || len(wall.GrabPoints) != 1 {
		t.Fatalf("expected climbable wall with a grab point, got %+v", wall)
	}
	if f := wall.GrabPoints[0].Facing(); f.Sub(mgl64.Vec3{0, 0, 1}).Len() > 1e-9 {
		t.Fatalf("expected grab point facing +Z, got %v", f)
	}

	bad := LevelSpec{Boxes: []BoxSpec{{Name: "lava", Layer: "lava"}}}
	if _, err := bad.Build(boxworld.New()); err == nil {
		t.Fatalf("expected unknown layer to fail")
	}
}

func TestLevelBuildSide(t *testing.T) {
	l := LevelSpec{Boxes: []BoxSpec{
		{Name: "ground", Center: Vec3{0, -0.5, 0}, Size: Vec3{10, 1, 10}},
		{Name: "ledge", Layer: "climbable", Tags: []string{"Climbable.Ledge"}, Center: Vec3{3, 1, 0}, Size: Vec3{2, 2, 1}},
	}}
	w := cpworld.New()
	surfaces, err := l.BuildSide(w)
	if err != nil {
		t.Fatalf("expected side level to build, got %v", err)
	}
	if len(surfaces) != 2 || surfaces[1].Layer != collision.LayerClimbable {
		t.Fatalf("expected ground and climbable ledge, got %+v", surfaces)
	}

	hits := w.Raycast(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, 5, collision.LayerClimbable)
	if len(hits) == 0 || hits[0].Surface != surfaces[1] {
		t.Fatalf("expected ray to hit the ledge, got %+v", hits)
	}
	if d := hits[0].Distance; d < 2-1e-6 || d > 2+1e-6 {
		t.Fatalf("expected ledge face at distance 2, got %v", d)
	}
}

func TestInputAt(t *testing.T) {
	l := LevelSpec{Inputs: []InputStep{
		{At: 1, Duration: 0.5, Jump: true},
		{At: 1.2, Duration: 1, Move: [2]float64{1, 0}},
	}}

	cases := []struct {
		name    string
		t       float64
		prev    actor.Input
		jump    bool
		pressed bool
		moveX   float64
	}{
		{name: "before", t: 0.5},
		{name: "jump_edge", t: 1, jump: true, pressed: true},
		{name: "jump_held", t: 1.1, prev: actor.Input{Jump: true}, jump: true},
		{name: "overlap", t: 1.3, prev: actor.Input{Jump: true}, jump: true, moveX: 1},
		{name: "move_only", t: 2, moveX: 1},
		{name: "after", t: 2.2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := l.InputAt(c.t, c.prev)
			if in.Jump != c.jump || in.JumpPressed != c.pressed || in.MoveX != c.moveX {
				t.Fatalf("expected jump=%v pressed=%v moveX=%v, got %+v", c.jump, c.pressed, c.moveX, in)
			}
		})
	}
}

func TestWatcherReportsConfigWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("expected watcher, got %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	path := filepath.Join(dir, "character.yaml")
	if err := os.WriteFile(path, []byte("gravity: -10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Fatalf("expected %s, got %s", path, got)
		}
	case err := <-w.Errors:
		t.Fatalf("expected event, got error %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("expected an event for %s", path)
	}
}
