package abilities

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/ability"
	"github.com/milk9111/traverse/probe"
	"github.com/milk9111/traverse/tag"
)

// Script hook names. Every hook is optional; a missing can_activate allows
// the start.
const (
	hookCanActivate = "can_activate"
	hookStart       = "on_start"
	hookUpdate      = "update"
	hookStop        = "on_stop"
)

var scriptHooks = []string{hookCanActivate, hookStart, hookUpdate, hookStop}

// Script is an ability whose hooks are written in tengo. Each hook receives
// an engine map of functions bound to the character and a state map that
// persists for the life of the instance:
//
//	update := func(engine, state, dt) {
//		if engine.elapsed() > 1 { engine.stop() }
//	}
type Script struct {
	deps     Deps
	name     string
	src      []byte
	compiled *tengo.Compiled
	state    *tengo.Map
	hooks    map[string]bool
}

// NewScript compiles src for the ability called name.
func NewScript(d Deps, name string, src []byte) (*Script, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	hooks, err := definedHooks(src)
	if err != nil {
		return nil, fmt.Errorf("abilities: script %s: %w", name, err)
	}
	compiled, err := compileScript(src, hooks)
	if err != nil {
		return nil, fmt.Errorf("abilities: script %s: %w", name, err)
	}
	return &Script{
		deps:     d.resolved(),
		name:     name,
		src:      src,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		hooks:    hooks,
	}, nil
}

// definedHooks runs the bare script once to see which hooks it declares.
func definedHooks(src []byte) (map[string]bool, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	if err := compiled.Run(); err != nil {
		return nil, err
	}
	hooks := make(map[string]bool, len(scriptHooks))
	for _, h := range scriptHooks {
		hooks[h] = compiled.IsDefined(h)
	}
	return hooks, nil
}

func compileScript(src []byte, hooks map[string]bool) (*tengo.Compiled, error) {
	var b strings.Builder
	b.Write(src)
	b.WriteString("\n")
	if hooks[hookCanActivate] {
		b.WriteString(`if __phase == "can_activate" { __result = can_activate(__engine, __state) }` + "\n")
	}
	if hooks[hookStart] {
		b.WriteString(`if __phase == "start" { on_start(__engine, __state) }` + "\n")
	}
	if hooks[hookUpdate] {
		b.WriteString(`if __phase == "update" { update(__engine, __state, __dt) }` + "\n")
	}
	if hooks[hookStop] {
		b.WriteString(`if __phase == "stop" { on_stop(__engine, __state) }` + "\n")
	}

	script := tengo.NewScript([]byte(b.String()))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__dt", 0.0)
	_ = script.Add("__result", true)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

func (s *Script) Name() string { return s.name }

// State returns the persistent script state converted to Go values.
func (s *Script) State() map[string]any {
	out, _ := objectToAny(s.state).(map[string]any)
	return out
}

func (s *Script) runPhase(phase string, inst *ability.Instance, dt float64) error {
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", s.engine(inst)); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	if err := s.compiled.Set("__dt", dt); err != nil {
		return err
	}
	if err := s.compiled.Set("__result", true); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *Script) CanActivate(inst *ability.Instance) bool {
	if !s.hooks[hookCanActivate] {
		return true
	}
	if err := s.runPhase("can_activate", inst, 0); err != nil {
		log.Printf("abilities: script %s can_activate: %v", s.name, err)
		return false
	}
	return s.compiled.Get("__result").Bool()
}

func (s *Script) OnStart(inst *ability.Instance) {
	s.run(hookStart, "start", inst, 0)
}

func (s *Script) Update(inst *ability.Instance, dt float64) {
	s.run(hookUpdate, "update", inst, dt)
}

func (s *Script) OnStop(inst *ability.Instance) {
	s.run(hookStop, "stop", inst, 0)
}

func (s *Script) run(hook, phase string, inst *ability.Instance, dt float64) {
	if !s.hooks[hook] {
		return
	}
	if err := s.runPhase(phase, inst, dt); err != nil {
		log.Printf("abilities: script %s %s: %v", s.name, phase, err)
	}
}

// Bind returns a fresh copy of the script driving d's character.
func (s *Script) Bind(d Deps) (ability.Behavior, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	c := s.Clone().(*Script)
	c.deps = d.resolved()
	return c, nil
}

func (s *Script) Clone() ability.Behavior {
	return &Script{
		deps:     s.deps,
		name:     s.name,
		src:      s.src,
		compiled: s.compiled.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		hooks:    s.hooks,
	}
}

func (s *Script) engine(inst *ability.Instance) *tengo.ImmutableMap {
	m := s.deps.Mover
	values := map[string]tengo.Object{}
	fn := func(name string, f tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("stop", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(inst.Stop(ability.Instigator(s.name))), nil
	})
	fn("start", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(inst.Owner().StartByName(objectAsString(args[0]), ability.Instigator(s.name))), nil
	})
	fn("now", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: inst.Owner().Now()}, nil
	})
	fn("elapsed", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: inst.Elapsed()}, nil
	})
	fn("has_tag", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(inst.Owner().ActiveTags().Has(tag.Tag(objectAsString(args[0])))), nil
	})
	fn("position", func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(m.Position()), nil
	})
	fn("set_position", func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vecArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		m.SetPosition(v)
		return tengo.TrueValue, nil
	})
	fn("velocity", func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(m.Velocity()), nil
	})
	fn("set_velocity", func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vecArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		m.SetVelocity(v)
		return tengo.TrueValue, nil
	})
	fn("gravity", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return tengo.FalseValue, nil
		}
		m.SetGravityEnabled(!args[0].IsFalsy())
		return tengo.TrueValue, nil
	})
	fn("grounded", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(m.IsGrounded()), nil
	})
	fn("falling", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(m.IsFalling()), nil
	})
	fn("input", func(args ...tengo.Object) (tengo.Object, error) {
		in := *s.deps.Input
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"move_x":       &tengo.Float{Value: in.MoveX},
			"move_z":       &tengo.Float{Value: in.MoveZ},
			"jump":         boolObject(in.Jump),
			"jump_pressed": boolObject(in.JumpPressed),
			"drop":         boolObject(in.Drop),
			"climb":        boolObject(in.Climb),
		}}, nil
	})
	fn("play", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return tengo.FalseValue, nil
		}
		s.deps.Animator.Play(objectAsString(args[0]))
		return tengo.TrueValue, nil
	})
	fn("animation_finished", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(s.deps.Animator.Finished()), nil
	})
	fn("cue", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return tengo.FalseValue, nil
		}
		s.deps.Voice.Play(objectAsString(args[0]))
		return tengo.TrueValue, nil
	})
	fn("find_ledge", func(args ...tengo.Object) (tengo.Object, error) {
		if s.deps.Probe == nil {
			return tengo.UndefinedValue, nil
		}
		l, ok := s.deps.Probe.FindLedgeInDirection(probe.Query{
			Origin:         m.Position(),
			Forward:        s.deps.facing(),
			CheckClearance: true,
		})
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return vecObject(l.Edge()), nil
	})

	return &tengo.ImmutableMap{Value: values}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func vecObject(v mgl64.Vec3) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X()},
		&tengo.Float{Value: v.Y()},
		&tengo.Float{Value: v.Z()},
	}}
}

// vecArgs accepts either three numbers or one three-element array.
func vecArgs(args []tengo.Object) (mgl64.Vec3, bool) {
	if len(args) == 1 {
		if arr, ok := args[0].(*tengo.Array); ok {
			args = arr.Value
		}
	}
	if len(args) != 3 {
		return mgl64.Vec3{}, false
	}
	var v mgl64.Vec3
	for i, a := range args {
		f, ok := tengo.ToFloat64(a)
		if !ok {
			return mgl64.Vec3{}, false
		}
		v[i] = f
	}
	return v, true
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
