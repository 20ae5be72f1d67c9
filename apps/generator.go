// Package apps implements rate-controlled traffic generators.
package apps

import (
	"fmt"
	"log"
	"reflect"

	"github.com/ndnapps/ndnapps/sim"
)

// An ItemBuilder decides what a generator emits.
type ItemBuilder interface {
	// NextItem returns the item to emit at the given time. It returns false
	// when no more items can be generated.
	NextItem(now sim.VTimeInSec) (sim.Msg, bool)

	// Reset discards all the generation state.
	Reset()
}

// Generator emits the items produced by an ItemBuilder at the times chosen by
// an IntervalPolicy. At most one SendEvent is pending at any time.
type Generator struct {
	*sim.ComponentBase

	engine    sim.Engine
	transport Transport
	interval  *IntervalPolicy
	builder   ItemBuilder

	started   bool
	active    bool
	done      bool
	sendEvent *SendEvent
	numSent   uint64
}

// NewGenerator creates a new Generator.
func NewGenerator(
	name string,
	engine sim.Engine,
	transport Transport,
	interval *IntervalPolicy,
	builder ItemBuilder,
) *Generator {
	g := &Generator{
		ComponentBase: sim.NewComponentBase(name),
		engine:        engine,
		transport:     transport,
		interval:      interval,
		builder:       builder,
	}

	return g
}

// Start activates the generator. The first item is emitted at the current
// time.
func (g *Generator) Start() {
	if g.started {
		return
	}

	g.started = true
	g.active = true
	g.done = false

	g.scheduleAt(g.engine.CurrentTime())
}

// Stop cancels the pending emission and discards the generation state. It is
// safe to call Stop more than once.
func (g *Generator) Stop() {
	if g.sendEvent != nil {
		g.engine.Cancel(g.sendEvent)
		g.sendEvent = nil
	}

	if g.started {
		g.InvokeHook(sim.HookCtx{
			Domain: g,
			Now:    g.engine.CurrentTime(),
			Pos:    HookPosStopped,
		})
	}

	g.started = false
	g.active = false
	g.done = false
	g.numSent = 0
	g.builder.Reset()
}

// SetActive suspends or resumes the generator. A resumed generator that has
// nothing scheduled emits at the current time.
func (g *Generator) SetActive(active bool) {
	g.active = active

	if active && g.started && !g.done {
		g.scheduleAt(g.engine.CurrentTime())
	}
}

// IsActive returns true if the generator emits when its events fire.
func (g *Generator) IsActive() bool {
	return g.active
}

// IsStarted returns true between Start and Stop.
func (g *Generator) IsStarted() bool {
	return g.started
}

// IsArmed returns true if an emission is scheduled.
func (g *Generator) IsArmed() bool {
	return g.sendEvent != nil && g.engine.IsPending(g.sendEvent)
}

// IsDone returns true once the builder has run out of items.
func (g *Generator) IsDone() bool {
	return g.done
}

// NumSent returns the number of items sent since the generator started.
func (g *Generator) NumSent() uint64 {
	return g.numSent
}

// IntervalPolicy returns the policy that spaces the emissions.
func (g *Generator) IntervalPolicy() *IntervalPolicy {
	return g.interval
}

// Engine returns the engine that the generator schedules on.
func (g *Generator) Engine() sim.Engine {
	return g.engine
}

// Trigger emits one item at the current time without disturbing the regular
// schedule.
func (g *Generator) Trigger() {
	if !g.started {
		return
	}

	g.engine.Schedule(NewTriggerEvent(g.engine.CurrentTime(), g))
}

// Handle processes the events of the generator.
func (g *Generator) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *SendEvent:
		g.handleSendEvent(e)
	case *TriggerEvent:
		if g.started {
			g.emitNext()
		}
	default:
		return fmt.Errorf("%s cannot handle event of type %s",
			g.Name(), reflect.TypeOf(e))
	}

	return nil
}

func (g *Generator) handleSendEvent(e *SendEvent) {
	if !g.started {
		log.Panicf("%s received a send event before it started", g.Name())
	}

	if e == g.sendEvent {
		g.sendEvent = nil
	}

	g.emitNext()
}

func (g *Generator) emitNext() {
	if !g.active {
		return
	}

	now := g.engine.CurrentTime()

	item, ok := g.builder.NextItem(now)
	if !ok {
		g.finish(now)
		return
	}

	g.done = false
	g.transport.Send(item)
	g.numSent++

	g.InvokeHook(sim.HookCtx{
		Domain: g,
		Now:    now,
		Pos:    HookPosItemSent,
		Item:   item,
	})

	g.scheduleAt(now + g.interval.Next())
}

func (g *Generator) finish(now sim.VTimeInSec) {
	if g.done {
		return
	}

	g.done = true
	g.InvokeHook(sim.HookCtx{
		Domain: g,
		Now:    now,
		Pos:    HookPosGenerationDone,
	})
}

// rearm schedules an emission after the regular interval, unless one is
// already pending.
func (g *Generator) rearm() {
	if !g.started || !g.active {
		return
	}

	g.done = false
	if g.IsArmed() {
		return
	}

	g.scheduleAt(g.engine.CurrentTime() + g.interval.Next())
}

func (g *Generator) scheduleAt(t sim.VTimeInSec) {
	if g.IsArmed() {
		return
	}

	g.sendEvent = NewSendEvent(t, g)
	g.engine.Schedule(g.sendEvent)
}
