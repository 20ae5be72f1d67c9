package sim

// VTimeInSec is a point or a span of simulated time, in seconds.
type VTimeInSec float64

// An Event is an action that a Handler performs at a simulated time.
type Event interface {
	Time() VTimeInSec
	Handler() Handler

	// IsSecondary reports whether the event runs after all the primary events
	// of the same time.
	IsSecondary() bool
}

// A Handler owns the events scheduled to it. Handling an event may only
// change the state of its handler; other handlers are reached by scheduling
// events to them.
type Handler interface {
	Handle(e Event) error
}

// EventBase implements the Event getters. Concrete events embed it.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates a primary event that happens at t.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return newEventBase(t, handler, false)
}

// NewSecondaryEventBase creates an event that happens at t, after the primary
// events of t.
func NewSecondaryEventBase(t VTimeInSec, handler Handler) *EventBase {
	return newEventBase(t, handler, true)
}

func newEventBase(t VTimeInSec, handler Handler, secondary bool) *EventBase {
	return &EventBase{
		ID:        GetIDGenerator().Generate(),
		time:      t,
		handler:   handler,
		secondary: secondary,
	}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event is a secondary event.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}
