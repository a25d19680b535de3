package ability

// EventType identifies scheduler notifications.
type EventType string

const (
	EventStarted      EventType = "started"
	EventStopped      EventType = "stopped"
	EventRegistered   EventType = "registered"
	EventUnregistered EventType = "unregistered"
)

// Event is a lifecycle notification for one ability instance.
type Event struct {
	Type       EventType
	Ability    string
	Instigator Instigator
	Time       float64
}

// EventQueue is a simple FIFO queue drained by the host.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
