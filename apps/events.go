package apps

import (
	"github.com/ndnapps/ndnapps/sim"
)

// A SendEvent asks a generator to emit its next item.
type SendEvent struct {
	*sim.EventBase
}

// NewSendEvent creates a new SendEvent.
func NewSendEvent(t sim.VTimeInSec, handler sim.Handler) *SendEvent {
	return &SendEvent{EventBase: sim.NewEventBase(t, handler)}
}

// A TriggerEvent asks a generator to emit one item outside its regular
// schedule.
type TriggerEvent struct {
	*sim.EventBase
}

// NewTriggerEvent creates a new TriggerEvent.
func NewTriggerEvent(t sim.VTimeInSec, handler sim.Handler) *TriggerEvent {
	return &TriggerEvent{EventBase: sim.NewEventBase(t, handler)}
}

// A RetxEvent delivers a retransmission mark to a requester.
type RetxEvent struct {
	*sim.EventBase

	Seq uint32
}

// NewRetxEvent creates a new RetxEvent.
func NewRetxEvent(
	t sim.VTimeInSec,
	handler sim.Handler,
	seq uint32,
) *RetxEvent {
	return &RetxEvent{
		EventBase: sim.NewEventBase(t, handler),
		Seq:       seq,
	}
}
