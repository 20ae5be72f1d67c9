// Package reliability detects lost Interests and asks the requesters to send
// them again.
package reliability

import (
	"log"
	"slices"

	"github.com/ndnapps/ndnapps/apps"
	"github.com/ndnapps/ndnapps/face"
	"github.com/ndnapps/ndnapps/ndn"
	"github.com/ndnapps/ndnapps/sim"
)

// HookPosTimeout marks when the tracker gives up waiting for an Interest. The
// item is the sequence number.
var HookPosTimeout = &sim.HookPos{Name: "Timeout"}

// A Retransmitter can send a sequence number again.
type Retransmitter interface {
	sim.Named
	MarkForRetransmit(seq uint32)
}

// RetxTracker watches the Interests sent by a requester and the Interests
// delivered by the network. An Interest that is not delivered within the
// timeout is marked for retransmission.
//
// The tracker is a hook. It should be attached to the requester and to the
// links or sinks that confirm the delivery. It ticks after the deliveries of
// the same time, so an Interest delivered exactly at its deadline does not
// time out.
type RetxTracker struct {
	*sim.TickingComponent

	requester   Retransmitter
	timeout     sim.VTimeInSec
	outstanding map[uint32]sim.VTimeInSec
	numTimeouts uint64
}

// Func updates the outstanding Interests.
func (t *RetxTracker) Func(ctx sim.HookCtx) {
	if ctx.Pos == apps.HookPosStopped {
		t.forgetIfRequester(ctx.Domain)
		return
	}

	interest, ok := ctx.Item.(*ndn.Interest)
	if !ok || interest.Src != t.requester.Name() {
		return
	}

	switch ctx.Pos {
	case apps.HookPosItemSent:
		t.outstanding[interest.Seq] = ctx.Now
		t.TickLater()
	case face.HookPosMsgDelivered, face.HookPosMsgReceived:
		delete(t.outstanding, interest.Seq)
	}
}

// forgetIfRequester drops the outstanding Interests when the tracked
// requester stops. A restarted requester allocates its sequence numbers anew.
func (t *RetxTracker) forgetIfRequester(domain sim.Hookable) {
	named, ok := domain.(sim.Named)
	if !ok || named.Name() != t.requester.Name() {
		return
	}

	clear(t.outstanding)
}

// Tick marks the timed out Interests for retransmission.
func (t *RetxTracker) Tick() bool {
	if len(t.outstanding) == 0 {
		return false
	}

	now := t.CurrentTime()

	seqs := make([]uint32, 0, len(t.outstanding))
	for seq := range t.outstanding {
		seqs = append(seqs, seq)
	}
	slices.Sort(seqs)

	for _, seq := range seqs {
		if now-t.outstanding[seq] < t.timeout {
			continue
		}

		t.outstanding[seq] = now
		t.numTimeouts++
		t.requester.MarkForRetransmit(seq)

		t.InvokeHook(sim.HookCtx{
			Domain: t,
			Now:    now,
			Pos:    HookPosTimeout,
			Item:   seq,
		})
	}

	return true
}

// NumOutstanding returns the number of Interests not yet confirmed.
func (t *RetxTracker) NumOutstanding() int {
	return len(t.outstanding)
}

// NumTimeouts returns the number of retransmissions requested.
func (t *RetxTracker) NumTimeouts() uint64 {
	return t.numTimeouts
}

// Builder can build RetxTrackers.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	timeout   sim.VTimeInSec
	requester Retransmitter
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:    10 * sim.Hz,
		timeout: 1,
	}
}

// WithEngine sets the engine of the tracker.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets how often the tracker checks for timeouts.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithTimeout sets how long to wait for an Interest to be delivered.
func (b Builder) WithTimeout(timeout sim.VTimeInSec) Builder {
	b.timeout = timeout
	return b
}

// WithRequester sets the requester to notify.
func (b Builder) WithRequester(r Retransmitter) Builder {
	b.requester = r
	return b
}

// Build creates a new RetxTracker.
func (b Builder) Build(name string) *RetxTracker {
	if b.requester == nil {
		log.Panicf("%s: requester is not set", name)
	}

	if b.timeout <= 0 {
		log.Panicf("%s: timeout must be positive", name)
	}

	t := &RetxTracker{
		requester:   b.requester,
		timeout:     b.timeout,
		outstanding: make(map[uint32]sim.VTimeInSec),
	}
	t.TickingComponent = sim.NewSecondaryTickingComponent(
		name, b.engine, b.freq, t)

	return t
}
