package apps

import (
	"log"
	"math"

	"github.com/ndnapps/ndnapps/ndn"
	"github.com/ndnapps/ndnapps/rng"
	"github.com/ndnapps/ndnapps/sim"
)

// NoSeqLimit lets a generator allocate sequence numbers without a cap.
const NoSeqLimit uint32 = math.MaxUint32

// RequesterBuilder can build requesters.
type RequesterBuilder struct {
	engine    sim.Engine
	transport Transport
	src       rng.Source
	freq      sim.Freq
	randomize string
	identity  string
	prefix    ndn.Name
	maxSeq    uint32
	lifetime  sim.VTimeInSec
}

// MakeRequesterBuilder creates a RequesterBuilder with default parameters.
func MakeRequesterBuilder() RequesterBuilder {
	return RequesterBuilder{
		freq:      1 * sim.Hz,
		randomize: string(RandomizeNone),
		identity:  "none",
		prefix:    ndn.ParseName("/"),
		maxSeq:    NoSeqLimit,
		lifetime:  2,
	}
}

// WithEngine sets the engine that drives the requester.
func (b RequesterBuilder) WithEngine(engine sim.Engine) RequesterBuilder {
	b.engine = engine
	return b
}

// WithTransport sets where the Interests are sent.
func (b RequesterBuilder) WithTransport(t Transport) RequesterBuilder {
	b.transport = t
	return b
}

// WithRandomSource sets the source of the random delays and nonces. By
// default, each requester gets its own stream.
func (b RequesterBuilder) WithRandomSource(src rng.Source) RequesterBuilder {
	b.src = src
	return b
}

// WithFreq sets the number of Interests per second.
func (b RequesterBuilder) WithFreq(freq sim.Freq) RequesterBuilder {
	b.freq = freq
	return b
}

// WithRandomize sets the randomize mode: none, uniform, or exponential.
func (b RequesterBuilder) WithRandomize(mode string) RequesterBuilder {
	b.randomize = mode
	return b
}

// WithIdentity sets the identity attached to the Interests.
func (b RequesterBuilder) WithIdentity(identity string) RequesterBuilder {
	b.identity = identity
	return b
}

// WithPrefix sets the name prefix of the Interests.
func (b RequesterBuilder) WithPrefix(prefix string) RequesterBuilder {
	b.prefix = ndn.ParseName(prefix)
	return b
}

// WithMaxSeq sets the number of sequence numbers that can be allocated.
func (b RequesterBuilder) WithMaxSeq(maxSeq uint32) RequesterBuilder {
	b.maxSeq = maxSeq
	return b
}

// WithLifetime sets the lifetime of the Interests.
func (b RequesterBuilder) WithLifetime(
	lifetime sim.VTimeInSec,
) RequesterBuilder {
	b.lifetime = lifetime
	return b
}

// Build creates a new Requester.
func (b RequesterBuilder) Build(name string) *Requester {
	mustHaveEngineAndTransport(name, b.engine, b.transport)

	src := b.src
	if src == nil {
		src = rng.NewStreamSource(name)
	}

	r := &Requester{
		source: &interestSource{
			name:     name,
			prefix:   b.prefix,
			identity: b.identity,
			lifetime: b.lifetime,
			maxSeq:   b.maxSeq,
			nonces:   src,
		},
	}
	r.source.Reset()

	r.Generator = NewGenerator(
		name,
		b.engine,
		b.transport,
		NewIntervalPolicy(b.freq, b.randomize, src),
		r.source,
	)

	return r
}

// ResponderBuilder can build responders.
type ResponderBuilder struct {
	engine       sim.Engine
	transport    Transport
	src          rng.Source
	signer       Signer
	freq         sim.Freq
	randomize    string
	dataName     ndn.Name
	emergencyInd string
	maxSeq       uint32
	freshness    sim.VTimeInSec
	payloadSize  int
	keyLocator   ndn.Name
	signature    uint32
}

// MakeResponderBuilder creates a ResponderBuilder with default parameters.
func MakeResponderBuilder() ResponderBuilder {
	return ResponderBuilder{
		freq:         1 * sim.Hz,
		randomize:    string(RandomizeNone),
		dataName:     ndn.ParseName("/"),
		emergencyInd: ndn.EmergencyNone,
		maxSeq:       NoSeqLimit,
		payloadSize:  1024,
	}
}

// WithEngine sets the engine that drives the responder.
func (b ResponderBuilder) WithEngine(engine sim.Engine) ResponderBuilder {
	b.engine = engine
	return b
}

// WithTransport sets where the Data are sent.
func (b ResponderBuilder) WithTransport(t Transport) ResponderBuilder {
	b.transport = t
	return b
}

// WithRandomSource sets the source of the random delays.
func (b ResponderBuilder) WithRandomSource(src rng.Source) ResponderBuilder {
	b.src = src
	return b
}

// WithSigner replaces the default fake signer.
func (b ResponderBuilder) WithSigner(signer Signer) ResponderBuilder {
	b.signer = signer
	return b
}

// WithFreq sets the number of Data per second.
func (b ResponderBuilder) WithFreq(freq sim.Freq) ResponderBuilder {
	b.freq = freq
	return b
}

// WithRandomize sets the randomize mode: none, uniform, or exponential.
func (b ResponderBuilder) WithRandomize(mode string) ResponderBuilder {
	b.randomize = mode
	return b
}

// WithDataName sets the name prefix of the Data.
func (b ResponderBuilder) WithDataName(name string) ResponderBuilder {
	b.dataName = ndn.ParseName(name)
	return b
}

// WithEmergencyInd sets the indicator attached to every Data.
func (b ResponderBuilder) WithEmergencyInd(ind string) ResponderBuilder {
	b.emergencyInd = ind
	return b
}

// WithMaxSeq sets the number of Data to generate.
func (b ResponderBuilder) WithMaxSeq(maxSeq uint32) ResponderBuilder {
	b.maxSeq = maxSeq
	return b
}

// WithFreshness sets the freshness period of the Data.
func (b ResponderBuilder) WithFreshness(
	freshness sim.VTimeInSec,
) ResponderBuilder {
	b.freshness = freshness
	return b
}

// WithPayloadSize sets the content size of the Data in bytes.
func (b ResponderBuilder) WithPayloadSize(size int) ResponderBuilder {
	b.payloadSize = size
	return b
}

// WithKeyLocator sets the key locator of the default signer.
func (b ResponderBuilder) WithKeyLocator(name string) ResponderBuilder {
	b.keyLocator = ndn.ParseName(name)
	return b
}

// WithSignatureValue sets the value carried by the default signer.
func (b ResponderBuilder) WithSignatureValue(v uint32) ResponderBuilder {
	b.signature = v
	return b
}

// Build creates a new Responder.
func (b ResponderBuilder) Build(name string) *Responder {
	mustHaveEngineAndTransport(name, b.engine, b.transport)

	if b.payloadSize < 0 {
		log.Panicf("%s: payload size must not be negative", name)
	}

	src := b.src
	if src == nil {
		src = rng.NewStreamSource(name)
	}

	signer := b.signer
	if signer == nil {
		signer = ndn.FakeSigner{
			KeyLocator: b.keyLocator,
			Value:      b.signature,
		}
	}

	r := &Responder{
		source: &dataSource{
			name:         name,
			prefix:       b.dataName,
			freshness:    b.freshness,
			payloadSize:  b.payloadSize,
			emergencyInd: b.emergencyInd,
			maxSeq:       b.maxSeq,
			signer:       signer,
		},
	}

	r.Generator = NewGenerator(
		name,
		b.engine,
		b.transport,
		NewIntervalPolicy(b.freq, b.randomize, src),
		r.source,
	)

	return r
}

func mustHaveEngineAndTransport(
	name string,
	engine sim.Engine,
	transport Transport,
) {
	if engine == nil {
		log.Panicf("%s: engine is not set", name)
	}

	if transport == nil {
		log.Panicf("%s: transport is not set", name)
	}
}
