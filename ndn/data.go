package ndn

import (
	"github.com/ndnapps/ndnapps/sim"
)

const dataByteOverhead = 32

// SignatureTypeFake marks a signature that carries no cryptographic value.
const SignatureTypeFake uint8 = 255

// Emergency indicators recognized by the responders. Any other string is
// carried as is.
const (
	EmergencyNone      = "none"
	EmergencyEmergency = "emergency"
	EmergencyOther     = "other"
)

// SignatureInfo is the signature attached to a Data packet.
type SignatureInfo struct {
	Type       uint8
	KeyLocator Name
	Value      uint32
}

// Data carries content for a name.
type Data struct {
	sim.MsgMeta

	Name         Name
	Seq          uint32
	Freshness    sim.VTimeInSec
	Content      []byte
	Signature    SignatureInfo
	EmergencyInd string
	BornTime     sim.VTimeInSec
}

// Meta returns the meta data of the Data.
func (d *Data) Meta() *sim.MsgMeta {
	return &d.MsgMeta
}

// Clone returns a copy of the Data with a new ID. The content is shared.
func (d *Data) Clone() sim.Msg {
	c := *d
	c.Name = d.Name.Prefix(len(d.Name))
	c.ID = sim.GetIDGenerator().Generate()

	return &c
}

// BornTimeNanos returns the creation time in nanoseconds.
func (d *Data) BornTimeNanos() int64 {
	return int64(float64(d.BornTime) * 1e9)
}

// IsEmergency checks if the Data is tagged as emergency content.
func (d *Data) IsEmergency() bool {
	return d.EmergencyInd == EmergencyEmergency
}

// DataBuilder can build Data packets.
type DataBuilder struct {
	src, dst     string
	name         Name
	seq          uint32
	freshness    sim.VTimeInSec
	payloadSize  int
	emergencyInd string
	bornTime     sim.VTimeInSec
}

// MakeDataBuilder creates a new DataBuilder.
func MakeDataBuilder() DataBuilder {
	return DataBuilder{
		emergencyInd: EmergencyNone,
	}
}

// WithSrc sets the sender of the Data.
func (b DataBuilder) WithSrc(src string) DataBuilder {
	b.src = src
	return b
}

// WithDst sets the receiver of the Data.
func (b DataBuilder) WithDst(dst string) DataBuilder {
	b.dst = dst
	return b
}

// WithPrefix sets the name prefix. The sequence number is appended at build
// time.
func (b DataBuilder) WithPrefix(prefix Name) DataBuilder {
	b.name = prefix
	return b
}

// WithSeq sets the sequence number.
func (b DataBuilder) WithSeq(seq uint32) DataBuilder {
	b.seq = seq
	return b
}

// WithFreshness sets how long the Data stays fresh in caches.
func (b DataBuilder) WithFreshness(freshness sim.VTimeInSec) DataBuilder {
	b.freshness = freshness
	return b
}

// WithPayloadSize sets the size of the zero-filled content.
func (b DataBuilder) WithPayloadSize(size int) DataBuilder {
	b.payloadSize = size
	return b
}

// WithEmergencyInd sets the emergency indicator.
func (b DataBuilder) WithEmergencyInd(ind string) DataBuilder {
	b.emergencyInd = ind
	return b
}

// WithBornTime sets the creation time.
func (b DataBuilder) WithBornTime(t sim.VTimeInSec) DataBuilder {
	b.bornTime = t
	return b
}

// Build creates a new Data. The signature is left empty for a signer to fill.
func (b DataBuilder) Build() *Data {
	if b.payloadSize < 0 {
		panic("payload size must not be negative")
	}

	d := &Data{}
	d.ID = sim.GetIDGenerator().Generate()
	d.Src = b.src
	d.Dst = b.dst
	d.TrafficClass = "Data"
	d.Name = b.name.AppendSequenceNumber(b.seq)
	d.Seq = b.seq
	d.Freshness = b.freshness
	d.Content = make([]byte, b.payloadSize)
	d.EmergencyInd = b.emergencyInd
	d.BornTime = b.bornTime
	d.TrafficBytes = dataByteOverhead + len(d.Name.String()) + b.payloadSize

	return d
}
