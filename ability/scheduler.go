package ability

import (
	"log"

	"github.com/milk9111/traverse/tag"
)

// Scheduler owns an entity's ability roster and its active-tag set. It is not
// safe for concurrent use; the host ticks it from one goroutine.
type Scheduler struct {
	roster     []*Instance
	byName     map[string]*Instance
	activeTags tag.Set
	events     EventQueue
	now        float64
}

func NewScheduler() *Scheduler {
	return &Scheduler{byName: make(map[string]*Instance)}
}

// Now returns the scheduler clock in seconds.
func (s *Scheduler) Now() float64 {
	if s == nil {
		return 0
	}
	return s.now
}

// Events returns the scheduler event queue.
func (s *Scheduler) Events() *EventQueue {
	if s == nil {
		return nil
	}
	return &s.events
}

// ActiveTags returns a copy of the currently active tags.
func (s *Scheduler) ActiveTags() tag.Set {
	if s == nil {
		return tag.Set{}
	}
	return s.activeTags.Clone()
}

// Register clones def into a new instance owned by s. A duplicate name is
// rejected with a warning and the existing instance is returned.
func (s *Scheduler) Register(def Definition, instigator Instigator) (*Instance, bool) {
	if s == nil || def.Name == "" {
		return nil, false
	}
	if existing, ok := s.byName[def.Name]; ok {
		log.Printf("ability: register %q by %s ignored: name already registered", def.Name, instigator)
		return existing, false
	}
	inst := &Instance{
		name:      def.Name,
		tags:      def.Tags.clone(),
		autoStart: def.AutoStart,
		owner:     s,
	}
	if def.Behavior != nil {
		inst.behavior = def.Behavior.Clone()
	}
	s.roster = append(s.roster, inst)
	s.byName[def.Name] = inst
	s.events.Push(Event{Type: EventRegistered, Ability: def.Name, Instigator: instigator, Time: s.now})
	return inst, true
}

// Unregister removes the named instance, stopping it first when running.
func (s *Scheduler) Unregister(name string, instigator Instigator) bool {
	if s == nil {
		return false
	}
	inst, ok := s.byName[name]
	if !ok {
		return false
	}
	inst.Stop(instigator)
	delete(s.byName, name)
	for i, r := range s.roster {
		if r == inst {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			break
		}
	}
	inst.owner = nil
	s.events.Push(Event{Type: EventUnregistered, Ability: name, Instigator: instigator, Time: s.now})
	return true
}

// Find returns the instance registered under name.
func (s *Scheduler) Find(name string) (*Instance, bool) {
	if s == nil {
		return nil, false
	}
	inst, ok := s.byName[name]
	return inst, ok
}

// Find returns the behaviour registered under name when it has type T.
func Find[T Behavior](s *Scheduler, name string) (T, bool) {
	var zero T
	inst, ok := s.Find(name)
	if !ok || inst.behavior == nil {
		return zero, false
	}
	b, ok := inst.behavior.(T)
	if !ok {
		return zero, false
	}
	return b, true
}

// Instances returns the roster in registration order.
func (s *Scheduler) Instances() []*Instance {
	if s == nil {
		return nil
	}
	out := make([]*Instance, 0, len(s.roster))
	return append(out, s.roster...)
}

// Running returns the names of running abilities in roster order.
func (s *Scheduler) Running() []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, inst := range s.roster {
		if inst.running {
			out = append(out, inst.name)
		}
	}
	return out
}

func (s *Scheduler) StartByName(name string, instigator Instigator) bool {
	inst, ok := s.Find(name)
	if !ok {
		return false
	}
	return inst.Start(instigator)
}

func (s *Scheduler) StopByName(name string, instigator Instigator) bool {
	inst, ok := s.Find(name)
	if !ok {
		return false
	}
	return inst.Stop(instigator)
}

// IsRunning reports whether the named ability is running.
func (s *Scheduler) IsRunning(name string) bool {
	inst, ok := s.Find(name)
	return ok && inst.running
}

// CancelAbilitiesWithTag stops every running ability whose activation tags
// intersect set and returns how many were stopped.
func (s *Scheduler) CancelAbilitiesWithTag(set tag.Set, instigator Instigator) int {
	return s.cancelWithTags(set, instigator, nil)
}

func (s *Scheduler) cancelWithTags(set tag.Set, instigator Instigator, except *Instance) int {
	if s == nil || set.IsEmpty() {
		return 0
	}
	stopped := 0
	for _, inst := range s.Instances() {
		if inst == except || !inst.running {
			continue
		}
		if inst.tags.Activation.HasAny(set) && inst.Stop(instigator) {
			stopped++
		}
	}
	return stopped
}

// Tick advances the clock and runs one scheduling pass: running abilities are
// updated, idle auto-start abilities are offered a start.
func (s *Scheduler) Tick(dt float64) {
	if s == nil {
		return
	}
	s.now += dt
	for _, inst := range s.Instances() {
		if inst.owner != s {
			// unregistered earlier in this pass
			continue
		}
		if inst.running {
			inst.update(dt)
			continue
		}
		if inst.autoStart {
			inst.Start(InstigatorScheduler)
		}
	}
}
