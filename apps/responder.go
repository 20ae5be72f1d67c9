package apps

import (
	"github.com/ndnapps/ndnapps/ndn"
	"github.com/ndnapps/ndnapps/sim"
)

// dataSource produces Data with increasing sequence numbers until the cap is
// reached.
type dataSource struct {
	name         string
	prefix       ndn.Name
	freshness    sim.VTimeInSec
	payloadSize  int
	emergencyInd string
	maxSeq       uint32
	signer       Signer

	seq uint32
}

func (s *dataSource) NextItem(now sim.VTimeInSec) (sim.Msg, bool) {
	if s.seq >= s.maxSeq {
		return nil, false
	}

	data := ndn.MakeDataBuilder().
		WithSrc(s.name).
		WithPrefix(s.prefix).
		WithSeq(s.seq).
		WithFreshness(s.freshness).
		WithPayloadSize(s.payloadSize).
		WithEmergencyInd(s.emergencyInd).
		WithBornTime(now).
		Build()
	data.SendTime = now
	s.signer.Sign(data)

	s.seq++

	return data, true
}

func (s *dataSource) Reset() {
	s.seq = 0
}

// A Responder pushes Data at a controlled rate, without waiting for
// Interests. Every Data carries the configured emergency indicator.
type Responder struct {
	*Generator

	source *dataSource
}

// EmergencyInd returns the indicator attached to every Data.
func (r *Responder) EmergencyInd() string {
	return r.source.emergencyInd
}

// DataName returns the name prefix of the Data.
func (r *Responder) DataName() ndn.Name {
	return r.source.prefix
}

// NextSeq returns the sequence number of the next Data.
func (r *Responder) NextSeq() uint32 {
	return r.source.seq
}
