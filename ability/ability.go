package ability

import "github.com/milk9111/traverse/tag"

// Instigator names whoever asked for a start or stop ("input", "scheduler",
// another ability's name, ...). It is only used for events and logs.
type Instigator string

// InstigatorScheduler is used for auto-start activations.
const InstigatorScheduler Instigator = "scheduler"

// Behavior defines the per-ability hooks of the four-phase lifecycle.
// The scheduler enforces the tag contract; CanActivate only adds extra
// preconditions on top of it.
type Behavior interface {
	CanActivate(inst *Instance) bool
	OnStart(inst *Instance)
	Update(inst *Instance, dt float64)
	OnStop(inst *Instance)
	// Clone returns a fresh runtime copy of the behaviour so one definition
	// can be registered on many owners.
	Clone() Behavior
}

// Hooks is an embeddable no-op implementation of every Behavior hook except
// Clone.
type Hooks struct{}

func (Hooks) CanActivate(*Instance) bool { return true }
func (Hooks) OnStart(*Instance)          {}
func (Hooks) Update(*Instance, float64)  {}
func (Hooks) OnStop(*Instance)           {}

// Tags groups the four tag sets that gate an ability.
type Tags struct {
	// Activation tags are in the owner's active set while running.
	Activation tag.Set
	// Required tags must all be active for the ability to start.
	Required tag.Set
	// Blocking tags prevent a start while any of them is active.
	Blocking tag.Set
	// CancelWith stops other running abilities whose activation tags match.
	CancelWith tag.Set
}

func (t Tags) clone() Tags {
	return Tags{
		Activation: t.Activation.Clone(),
		Required:   t.Required.Clone(),
		Blocking:   t.Blocking.Clone(),
		CancelWith: t.CancelWith.Clone(),
	}
}

// Definition is a reusable ability prototype.
type Definition struct {
	Name      string
	Tags      Tags
	AutoStart bool
	Behavior  Behavior
}

// Instance is the per-owner runtime copy of a Definition.
type Instance struct {
	name      string
	tags      Tags
	autoStart bool
	behavior  Behavior

	// owner is a non-owning back reference; the scheduler owns the instance.
	owner *Scheduler

	running   bool
	startTime float64
	stopTime  float64
}

func (i *Instance) Name() string       { return i.name }
func (i *Instance) Tags() Tags         { return i.tags }
func (i *Instance) AutoStart() bool    { return i.autoStart }
func (i *Instance) Behavior() Behavior { return i.behavior }
func (i *Instance) Owner() *Scheduler  { return i.owner }
func (i *Instance) IsRunning() bool    { return i.running }
func (i *Instance) StartTime() float64 { return i.startTime }
func (i *Instance) StopTime() float64  { return i.stopTime }

// Elapsed returns the time since the last start while running, else 0.
func (i *Instance) Elapsed() float64 {
	if i == nil || !i.running || i.owner == nil {
		return 0
	}
	return i.owner.Now() - i.startTime
}

// CanStart applies the tag contract and then the behaviour's own
// preconditions.
func (i *Instance) CanStart() bool {
	if i == nil || i.owner == nil || i.running {
		return false
	}
	active := i.owner.activeTags
	if active.HasAny(i.tags.Blocking) {
		return false
	}
	if !active.HasAll(i.tags.Required) {
		return false
	}
	if i.behavior == nil {
		return true
	}
	return i.behavior.CanActivate(i)
}

// Start activates the ability. Running abilities matching this one's
// cancel-with tags are stopped before the start hook runs.
func (i *Instance) Start(instigator Instigator) bool {
	if !i.CanStart() {
		return false
	}
	s := i.owner
	s.activeTags.Add(i.tags.Activation)
	s.cancelWithTags(i.tags.CancelWith, Instigator(i.name), i)
	i.startTime = s.Now()
	if i.behavior != nil {
		i.behavior.OnStart(i)
	}
	i.running = true
	s.events.Push(Event{Type: EventStarted, Ability: i.name, Instigator: instigator, Time: i.startTime})
	return true
}

// Stop deactivates the ability. Stopping an idle ability is a no-op.
func (i *Instance) Stop(instigator Instigator) bool {
	if i == nil || !i.running {
		return false
	}
	s := i.owner
	s.activeTags.Remove(i.tags.Activation)
	i.stopTime = s.Now()
	if i.behavior != nil {
		i.behavior.OnStop(i)
	}
	i.running = false
	s.events.Push(Event{Type: EventStopped, Ability: i.name, Instigator: instigator, Time: i.stopTime})
	return true
}

func (i *Instance) update(dt float64) {
	if i.behavior != nil {
		i.behavior.Update(i, dt)
	}
}
