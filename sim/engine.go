package sim

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	TimeTeller

	Schedule(e Event)
}

// EventCanceler can withdraw events that are scheduled but not yet handled.
type EventCanceler interface {
	// Cancel prevents a scheduled event from being handled. Cancelling an
	// event that has already been handled or cancelled does nothing.
	Cancel(e Event)

	// IsPending returns true if the event is scheduled and has neither been
	// handled nor cancelled.
	IsPending(e Event) bool
}

// A SimulationEndHandler is a handler that is called after the simulation ends.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine is a unit that keeps the discrete event simulation run.
type Engine interface {
	Hookable
	EventScheduler
	EventCanceler

	// Run will process all the events until the simulation finishes
	Run() error

	// RunUntil processes all the events that happen no later than the given
	// time and leaves the rest in the queue.
	RunUntil(t VTimeInSec) error

	// Pause will pause the simulation until continue is called.
	Pause()

	// Continue will continue the paused simulation
	Continue()

	// RegisterSimulationEndHandler registers a handler that perform some
	// actions after the simulation is finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandler
	Finished()
}
