package apps

import (
	"log"

	"github.com/ndnapps/ndnapps/rng"
	"github.com/ndnapps/ndnapps/sim"
)

// RandomizeMode selects how the delay between two emissions is drawn.
type RandomizeMode string

// Supported randomize modes.
const (
	RandomizeNone        RandomizeMode = "none"
	RandomizeUniform     RandomizeMode = "uniform"
	RandomizeExponential RandomizeMode = "exponential"
)

// DefaultBoundFactor limits exponential delays to this many times the mean.
const DefaultBoundFactor = 50.0

// ParseRandomizeMode converts a string to a RandomizeMode. Unknown strings
// fall back to RandomizeNone.
func ParseRandomizeMode(s string) RandomizeMode {
	switch RandomizeMode(s) {
	case RandomizeUniform:
		return RandomizeUniform
	case RandomizeExponential:
		return RandomizeExponential
	default:
		return RandomizeNone
	}
}

// IntervalPolicy decides how long a generator waits before its next emission.
type IntervalPolicy struct {
	freq sim.Freq
	mode RandomizeMode
	src  rng.Source

	BoundFactor float64
}

// NewIntervalPolicy creates an IntervalPolicy. The source is only used by the
// random modes and may be nil otherwise.
func NewIntervalPolicy(
	freq sim.Freq,
	mode string,
	src rng.Source,
) *IntervalPolicy {
	freqMustBePositive(freq)

	return &IntervalPolicy{
		freq:        freq,
		mode:        ParseRandomizeMode(mode),
		src:         src,
		BoundFactor: DefaultBoundFactor,
	}
}

// Next draws the delay until the next emission.
func (p *IntervalPolicy) Next() sim.VTimeInSec {
	mean := float64(p.freq.Period())

	switch p.mode {
	case RandomizeUniform:
		return sim.VTimeInSec(p.source().UniformReal(0, 2*mean))
	case RandomizeExponential:
		return sim.VTimeInSec(
			p.source().Exponential(mean, p.BoundFactor*mean))
	default:
		return sim.VTimeInSec(mean)
	}
}

func (p *IntervalPolicy) source() rng.Source {
	if p.src == nil {
		log.Panicf("randomize mode %s requires a random source", p.mode)
	}

	return p.src
}

// SetMode changes how future delays are drawn.
func (p *IntervalPolicy) SetMode(mode string) {
	p.mode = ParseRandomizeMode(mode)
}

// Mode returns the effective randomize mode.
func (p *IntervalPolicy) Mode() RandomizeMode {
	return p.mode
}

// SetFreq changes the base rate of future delays.
func (p *IntervalPolicy) SetFreq(freq sim.Freq) {
	freqMustBePositive(freq)
	p.freq = freq
}

// Freq returns the base rate.
func (p *IntervalPolicy) Freq() sim.Freq {
	return p.freq
}

func freqMustBePositive(freq sim.Freq) {
	if freq <= 0 {
		log.Panicf("frequency must be positive, got %f", freq)
	}
}
