package sim

import (
	"log"
	"reflect"
	"sync"
)

// A SerialEngine is an Engine that always run events one after another.
type SerialEngine struct {
	HookableBase

	timeLock       sync.RWMutex
	time           VTimeInSec
	queue          EventQueue
	secondaryQueue EventQueue

	pendingLock sync.Mutex
	pending     map[Event]int

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)

	e.queue = NewEventQueue()
	e.secondaryQueue = NewEventQueue()
	e.pending = make(map[Event]int)

	return e
}

// Schedule register an event to be happen in the future
func (e *SerialEngine) Schedule(evt Event) {
	now := e.readNow()
	if evt.Time() < now {
		log.Panicf(
			"scheduling an event earlier than current time, "+
				"evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}

	e.pendingLock.Lock()
	e.pending[evt]++
	e.pendingLock.Unlock()

	if evt.IsSecondary() {
		e.secondaryQueue.Push(evt)
		return
	}

	e.queue.Push(evt)
}

// Cancel withdraws a scheduled event. The event stays in the queue but is
// dropped when it reaches the front. Events that compare equal are cancelled
// together.
func (e *SerialEngine) Cancel(evt Event) {
	if evt == nil {
		return
	}

	e.pendingLock.Lock()
	delete(e.pending, evt)
	e.pendingLock.Unlock()
}

// IsPending returns true if the event is scheduled and not yet handled or
// cancelled.
func (e *SerialEngine) IsPending(evt Event) bool {
	if evt == nil {
		return false
	}

	e.pendingLock.Lock()
	_, found := e.pending[evt]
	e.pendingLock.Unlock()

	return found
}

// takePending removes the event from the pending set and reports whether it
// was still pending, i.e., not cancelled.
func (e *SerialEngine) takePending(evt Event) bool {
	e.pendingLock.Lock()
	defer e.pendingLock.Unlock()

	n := e.pending[evt]
	if n == 0 {
		return false
	}

	if n == 1 {
		delete(e.pending, evt)
	} else {
		e.pending[evt] = n - 1
	}

	return true
}

func (e *SerialEngine) readNow() VTimeInSec {
	e.timeLock.RLock()
	t := e.time
	e.timeLock.RUnlock()

	return t
}

func (e *SerialEngine) writeNow(t VTimeInSec) {
	e.timeLock.Lock()
	e.time = t
	e.timeLock.Unlock()
}

// Run processes all the events scheduled in the SerialEngine
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		if e.noMoreEvent() {
			return nil
		}

		e.processNextEvent()
	}
}

// RunUntil processes the events that happen no later than endTime. After it
// returns, the current time is at least endTime.
func (e *SerialEngine) RunUntil(endTime VTimeInSec) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		if e.noMoreEvent() {
			break
		}

		if e.peekNextEvent().Time() > endTime {
			break
		}

		e.processNextEvent()
	}

	if e.readNow() < endTime {
		e.writeNow(endTime)
	}

	return nil
}

func (e *SerialEngine) processNextEvent() {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	evt := e.nextEvent()
	if !e.takePending(evt) {
		return
	}

	now := e.readNow()
	if evt.Time() < now {
		log.Panicf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}
	e.writeNow(evt.Time())

	hookCtx := HookCtx{
		Domain: e,
		Now:    evt.Time(),
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	handler := evt.Handler()
	_ = handler.Handle(evt)

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)
}

func (e *SerialEngine) noMoreEvent() bool {
	e.dropCancelledHead(e.queue)
	e.dropCancelledHead(e.secondaryQueue)

	return e.queue.Len() == 0 && e.secondaryQueue.Len() == 0
}

// dropCancelledHead removes the cancelled events in front of the queue so that
// the head of the queue is always an event that will be handled.
func (e *SerialEngine) dropCancelledHead(q EventQueue) {
	for q.Len() > 0 {
		if e.IsPending(q.Peek()) {
			return
		}

		q.Pop()
	}
}

func (e *SerialEngine) peekNextEvent() Event {
	if e.queue.Len() == 0 {
		return e.secondaryQueue.Peek()
	}

	if e.secondaryQueue.Len() == 0 {
		return e.queue.Peek()
	}

	primaryEvt := e.queue.Peek()
	secondaryEvt := e.secondaryQueue.Peek()

	if primaryEvt.Time() <= secondaryEvt.Time() {
		return primaryEvt
	}

	return secondaryEvt
}

func (e *SerialEngine) nextEvent() Event {
	if e.queue.Len() == 0 {
		return e.secondaryQueue.Pop()
	}

	if e.secondaryQueue.Len() == 0 {
		return e.queue.Pop()
	}

	primaryEvt := e.queue.Peek()
	secondaryEvt := e.secondaryQueue.Peek()

	if primaryEvt.Time() <= secondaryEvt.Time() {
		e.queue.Pop()
		return primaryEvt
	}

	e.secondaryQueue.Pop()

	return secondaryEvt
}

// Pause prevents the SerialEngine to trigger more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// CurrentTime returns the current time at which the engine is at.
// Specifically, the run time of the current event.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	return e.readNow()
}

// RegisterSimulationEndHandler invokes all the registered simulation end
// handler.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.simulationEndHandlers = append(e.simulationEndHandlers, handler)
}

// Finished should be called after the simulation ends. This function
// calls all the registered SimulationEndHandler.
func (e *SerialEngine) Finished() {
	now := e.readNow()
	for _, h := range e.simulationEndHandlers {
		h.Handle(now)
	}
}
