package apps

import (
	"log"
	"math"
	"slices"

	"github.com/ndnapps/ndnapps/ndn"
	"github.com/ndnapps/ndnapps/rng"
	"github.com/ndnapps/ndnapps/sim"
)

// SentRecord tracks the transmissions of one sequence number.
type SentRecord struct {
	LastSent         sim.VTimeInSec
	NumTransmissions int
}

// interestSource allocates sequence numbers and builds Interests. Sequence
// numbers marked for retransmission are sent before new ones.
type interestSource struct {
	name     string
	prefix   ndn.Name
	identity string
	lifetime sim.VTimeInSec
	maxSeq   uint32
	nonces   rng.Source

	seq  uint32
	retx retxSet
	sent map[uint32]SentRecord
}

func (s *interestSource) NextItem(now sim.VTimeInSec) (sim.Msg, bool) {
	seq, ok := s.retx.PopSmallest()
	if !ok {
		if s.seq >= s.maxSeq {
			return nil, false
		}

		seq = s.seq
		s.seq++
	}

	interest := ndn.MakeInterestBuilder().
		WithSrc(s.name).
		WithPrefix(s.prefix).
		WithSeq(seq).
		WithNonce(uint32(s.nonces.UniformInt(0, math.MaxUint32))).
		WithLifetime(s.lifetime).
		WithIdentity(s.identity).
		Build()
	interest.SendTime = now

	record := s.sent[seq]
	record.LastSent = now
	record.NumTransmissions++
	s.sent[seq] = record

	return interest, true
}

func (s *interestSource) Reset() {
	s.seq = 0
	s.retx.Clear()
	s.sent = make(map[uint32]SentRecord)
}

func (s *interestSource) allocated(seq uint32) bool {
	_, found := s.sent[seq]
	return found
}

// A Requester sends Interests with increasing sequence numbers at a
// controlled rate and resends the sequence numbers marked for
// retransmission.
type Requester struct {
	*Generator

	source     *interestSource
	retxEvents []*RetxEvent
}

// Handle processes the events of the requester.
func (r *Requester) Handle(e sim.Event) error {
	if e, ok := e.(*RetxEvent); ok {
		r.handleRetxEvent(e)
		return nil
	}

	return r.Generator.Handle(e)
}

// MarkForRetransmit requests the sequence number to be sent again. The mark
// is delivered as an event at the current time. Marks on a stopped requester
// are ignored. Marking a sequence number that was never sent panics.
func (r *Requester) MarkForRetransmit(seq uint32) {
	if !r.started {
		return
	}

	if !r.source.allocated(seq) {
		log.Panicf("%s: sequence number %d is marked for retransmission "+
			"but was never sent", r.Name(), seq)
	}

	evt := NewRetxEvent(r.engine.CurrentTime(), r, seq)
	r.retxEvents = append(r.retxEvents, evt)
	r.engine.Schedule(evt)
}

// Stop cancels the pending emission and the undelivered retransmission marks
// and discards the generation state.
func (r *Requester) Stop() {
	for _, evt := range r.retxEvents {
		r.engine.Cancel(evt)
	}
	r.retxEvents = nil

	r.Generator.Stop()
}

func (r *Requester) handleRetxEvent(e *RetxEvent) {
	r.retxEvents = slices.DeleteFunc(r.retxEvents,
		func(evt *RetxEvent) bool { return evt == e })

	if !r.started {
		return
	}

	if !r.source.retx.Insert(e.Seq) {
		return
	}

	r.InvokeHook(sim.HookCtx{
		Domain: r,
		Now:    e.Time(),
		Pos:    HookPosRetxMarked,
		Item:   e.Seq,
	})

	r.rearm()
}

// Identity returns the identity attached to every Interest.
func (r *Requester) Identity() string {
	return r.source.identity
}

// Prefix returns the name prefix of the Interests.
func (r *Requester) Prefix() ndn.Name {
	return r.source.prefix
}

// Lifetime returns the lifetime of the Interests.
func (r *Requester) Lifetime() sim.VTimeInSec {
	return r.source.lifetime
}

// NextSeq returns the sequence number that will be allocated next.
func (r *Requester) NextSeq() uint32 {
	return r.source.seq
}

// NumPendingRetx returns the number of sequence numbers waiting to be resent.
func (r *Requester) NumPendingRetx() int {
	return r.source.retx.Len()
}

// SentRecord returns the transmission record of a sequence number.
func (r *Requester) SentRecord(seq uint32) (SentRecord, bool) {
	record, found := r.source.sent[seq]
	return record, found
}
