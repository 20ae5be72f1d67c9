// Package face connects the applications to the rest of the simulated
// network.
package face

import (
	"fmt"
	"log"
	"reflect"

	"github.com/ndnapps/ndnapps/rng"
	"github.com/ndnapps/ndnapps/sim"
)

// HookPosMsgDelivered marks when a link hands a message to its receiver.
var HookPosMsgDelivered = &sim.HookPos{Name: "MsgDelivered"}

// HookPosMsgDropped marks when a link loses a message.
var HookPosMsgDropped = &sim.HookPos{Name: "MsgDropped"}

// A Receiver accepts the messages that arrive at the end of a link.
type Receiver interface {
	sim.Named
	Receive(msg sim.Msg)
}

// DeliverEvent moves a message from the link to the receiver.
type DeliverEvent struct {
	*sim.EventBase

	Msg sim.Msg
}

// NewDeliverEvent creates a new DeliverEvent.
func NewDeliverEvent(
	t sim.VTimeInSec,
	handler sim.Handler,
	msg sim.Msg,
) *DeliverEvent {
	return &DeliverEvent{
		EventBase: sim.NewEventBase(t, handler),
		Msg:       msg,
	}
}

// Link delivers messages to a receiver after a fixed latency. Each message is
// lost with a fixed probability.
type Link struct {
	*sim.ComponentBase

	engine   sim.Engine
	latency  sim.VTimeInSec
	dropRate float64
	src      rng.Source
	dst      Receiver

	numSent      uint64
	numDelivered uint64
	numDropped   uint64
}

// Send puts a message on the link.
func (l *Link) Send(msg sim.Msg) {
	now := l.engine.CurrentTime()
	l.numSent++

	if l.dropRate > 0 && l.src.UniformReal(0, 1) < l.dropRate {
		l.numDropped++
		l.InvokeHook(sim.HookCtx{
			Domain: l,
			Now:    now,
			Pos:    HookPosMsgDropped,
			Item:   msg,
		})

		return
	}

	l.engine.Schedule(NewDeliverEvent(now+l.latency, l, msg))
}

// Handle delivers the messages that reach the end of the link.
func (l *Link) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *DeliverEvent:
		l.deliver(e)
	default:
		return fmt.Errorf("%s cannot handle event of type %s",
			l.Name(), reflect.TypeOf(e))
	}

	return nil
}

func (l *Link) deliver(e *DeliverEvent) {
	meta := e.Msg.Meta()
	meta.RecvTime = e.Time()
	meta.Dst = l.dst.Name()

	l.dst.Receive(e.Msg)
	l.numDelivered++

	l.InvokeHook(sim.HookCtx{
		Domain: l,
		Now:    e.Time(),
		Pos:    HookPosMsgDelivered,
		Item:   e.Msg,
	})
}

// NumSent returns the number of messages put on the link.
func (l *Link) NumSent() uint64 {
	return l.numSent
}

// NumDelivered returns the number of messages that reached the receiver.
func (l *Link) NumDelivered() uint64 {
	return l.numDelivered
}

// NumDropped returns the number of lost messages.
func (l *Link) NumDropped() uint64 {
	return l.numDropped
}

// LinkBuilder can build links.
type LinkBuilder struct {
	engine   sim.Engine
	latency  sim.VTimeInSec
	dropRate float64
	src      rng.Source
	dst      Receiver
}

// MakeLinkBuilder creates a LinkBuilder with default parameters.
func MakeLinkBuilder() LinkBuilder {
	return LinkBuilder{
		latency: 0.01,
	}
}

// WithEngine sets the engine of the link.
func (b LinkBuilder) WithEngine(engine sim.Engine) LinkBuilder {
	b.engine = engine
	return b
}

// WithLatency sets the time that a message spends on the link.
func (b LinkBuilder) WithLatency(latency sim.VTimeInSec) LinkBuilder {
	b.latency = latency
	return b
}

// WithDropRate sets the probability that a message is lost.
func (b LinkBuilder) WithDropRate(rate float64) LinkBuilder {
	b.dropRate = rate
	return b
}

// WithRandomSource sets the source that decides which messages are lost.
func (b LinkBuilder) WithRandomSource(src rng.Source) LinkBuilder {
	b.src = src
	return b
}

// WithReceiver sets the component at the end of the link.
func (b LinkBuilder) WithReceiver(dst Receiver) LinkBuilder {
	b.dst = dst
	return b
}

// Build creates a new Link.
func (b LinkBuilder) Build(name string) *Link {
	if b.engine == nil {
		log.Panicf("%s: engine is not set", name)
	}

	if b.dst == nil {
		log.Panicf("%s: receiver is not set", name)
	}

	if b.latency < 0 {
		log.Panicf("%s: latency must not be negative", name)
	}

	if b.dropRate < 0 || b.dropRate > 1 {
		log.Panicf("%s: drop rate must be in [0, 1], got %f", name, b.dropRate)
	}

	src := b.src
	if src == nil {
		src = rng.NewStreamSource(name)
	}

	return &Link{
		ComponentBase: sim.NewComponentBase(name),
		engine:        b.engine,
		latency:       b.latency,
		dropRate:      b.dropRate,
		src:           src,
		dst:           b.dst,
	}
}
