package ndn

import (
	"github.com/ndnapps/ndnapps/sim"
)

const interestByteOverhead = 16

// An Interest requests the Data with a given name.
type Interest struct {
	sim.MsgMeta

	Name     Name
	Seq      uint32
	Nonce    uint32
	Lifetime sim.VTimeInSec
	Identity string
}

// Meta returns the meta data of the Interest.
func (i *Interest) Meta() *sim.MsgMeta {
	return &i.MsgMeta
}

// Clone returns a copy of the Interest with a new ID.
func (i *Interest) Clone() sim.Msg {
	c := *i
	c.Name = i.Name.Prefix(len(i.Name))
	c.ID = sim.GetIDGenerator().Generate()

	return &c
}

// InterestBuilder can build Interests.
type InterestBuilder struct {
	src, dst string
	name     Name
	seq      uint32
	nonce    uint32
	lifetime sim.VTimeInSec
	identity string
}

// MakeInterestBuilder creates a new InterestBuilder.
func MakeInterestBuilder() InterestBuilder {
	return InterestBuilder{
		lifetime: 2,
		identity: "none",
	}
}

// WithSrc sets the sender of the Interest.
func (b InterestBuilder) WithSrc(src string) InterestBuilder {
	b.src = src
	return b
}

// WithDst sets the receiver of the Interest.
func (b InterestBuilder) WithDst(dst string) InterestBuilder {
	b.dst = dst
	return b
}

// WithPrefix sets the name prefix. The sequence number is appended at build
// time.
func (b InterestBuilder) WithPrefix(prefix Name) InterestBuilder {
	b.name = prefix
	return b
}

// WithSeq sets the sequence number.
func (b InterestBuilder) WithSeq(seq uint32) InterestBuilder {
	b.seq = seq
	return b
}

// WithNonce sets the nonce.
func (b InterestBuilder) WithNonce(nonce uint32) InterestBuilder {
	b.nonce = nonce
	return b
}

// WithLifetime sets how long the Interest stays valid.
func (b InterestBuilder) WithLifetime(lifetime sim.VTimeInSec) InterestBuilder {
	b.lifetime = lifetime
	return b
}

// WithIdentity sets the identity of the sender.
func (b InterestBuilder) WithIdentity(identity string) InterestBuilder {
	b.identity = identity
	return b
}

// Build creates a new Interest.
func (b InterestBuilder) Build() *Interest {
	i := &Interest{}
	i.ID = sim.GetIDGenerator().Generate()
	i.Src = b.src
	i.Dst = b.dst
	i.TrafficClass = "Interest"
	i.Name = b.name.AppendSequenceNumber(b.seq)
	i.Seq = b.seq
	i.Nonce = b.nonce
	i.Lifetime = b.lifetime
	i.Identity = b.identity
	i.TrafficBytes = interestByteOverhead + len(i.Name.String()) +
		len(b.identity)

	return i
}
