// Package rng provides the random variables that drive traffic generation.
package rng

import (
	"log"
	"math"

	"github.com/iti/rngstream"
)

// A Source draws random values from the distributions used by the
// applications.
type Source interface {
	// UniformReal returns a value in [min, max).
	UniformReal(min, max float64) float64

	// Exponential returns a value drawn from an exponential distribution
	// with the given mean. Values larger than bound are discarded and drawn
	// again. A bound of 0 means no bound.
	Exponential(mean, bound float64) float64

	// UniformInt returns an integer in [min, max].
	UniformInt(min, max uint64) uint64
}

// StreamSource is a Source backed by an independent RngStream. Each stream
// produces a reproducible sequence that does not overlap with other streams.
type StreamSource struct {
	name   string
	stream *rngstream.RngStream
}

// NewStreamSource creates a new stream with the given name.
func NewStreamSource(name string) *StreamSource {
	return &StreamSource{
		name:   name,
		stream: rngstream.New(name),
	}
}

// Name returns the name of the stream.
func (s *StreamSource) Name() string {
	return s.name
}

// UniformReal returns a value in [min, max).
func (s *StreamSource) UniformReal(min, max float64) float64 {
	if max < min {
		log.Panicf("invalid range [%f, %f)", min, max)
	}

	return min + (max-min)*s.stream.RandU01()
}

// Exponential returns an exponentially distributed value with the given mean.
func (s *StreamSource) Exponential(mean, bound float64) float64 {
	if mean <= 0 {
		log.Panicf("mean must be positive, got %f", mean)
	}

	for {
		u := s.stream.RandU01()
		if u <= 0 {
			continue
		}

		v := -mean * math.Log(u)
		if bound == 0 || v <= bound {
			return v
		}
	}
}

// UniformInt returns an integer in [min, max].
func (s *StreamSource) UniformInt(min, max uint64) uint64 {
	if max < min {
		log.Panicf("invalid range [%d, %d]", min, max)
	}

	span := float64(max-min) + 1
	v := min + uint64(span*s.stream.RandU01())
	if v > max {
		v = max
	}

	return v
}
