package face

import (
	"github.com/ndnapps/ndnapps/ndn"
	"github.com/ndnapps/ndnapps/sim"
)

// HookPosMsgReceived marks when a sink accepts a message.
var HookPosMsgReceived = &sim.HookPos{Name: "MsgReceived"}

type seqKey struct {
	src string
	seq uint32
}

// Sink consumes the packets that reach the end of the network.
type Sink struct {
	*sim.ComponentBase

	numInterests uint64
	numData      uint64
	numEmergency uint64
	received     map[seqKey]int
}

// NewSink creates a new Sink.
func NewSink(name string) *Sink {
	return &Sink{
		ComponentBase: sim.NewComponentBase(name),
		received:      make(map[seqKey]int),
	}
}

// Receive accepts a message.
func (s *Sink) Receive(msg sim.Msg) {
	meta := msg.Meta()

	switch m := msg.(type) {
	case *ndn.Interest:
		s.numInterests++
		s.received[seqKey{meta.Src, m.Seq}]++
	case *ndn.Data:
		s.numData++
		if m.IsEmergency() {
			s.numEmergency++
		}
		s.received[seqKey{meta.Src, m.Seq}]++
	}

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Now:    meta.RecvTime,
		Pos:    HookPosMsgReceived,
		Item:   msg,
	})
}

// Handle does nothing, as a sink is never scheduled.
func (s *Sink) Handle(_ sim.Event) error {
	return nil
}

// NumInterests returns the number of received Interests.
func (s *Sink) NumInterests() uint64 {
	return s.numInterests
}

// NumData returns the number of received Data.
func (s *Sink) NumData() uint64 {
	return s.numData
}

// NumEmergency returns the number of received Data tagged as emergency.
func (s *Sink) NumEmergency() uint64 {
	return s.numEmergency
}

// TimesReceived returns how many times the packet with the given sequence
// number from the given sender has arrived.
func (s *Sink) TimesReceived(src string, seq uint32) int {
	return s.received[seqKey{src, seq}]
}
