package tracing

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/ndnapps/ndnapps/sim"
)

// RateSample is the traffic of one kind seen at a component during one
// period.
type RateSample struct {
	Time    sim.VTimeInSec
	Where   string
	Kind    string
	Class   string
	Packets uint64
	Bytes   uint64
}

// PacketRate returns the packets per second of the sample.
func (s RateSample) PacketRate(period sim.VTimeInSec) float64 {
	return float64(s.Packets) / float64(period)
}

// ByteRate returns the bytes per second of the sample.
func (s RateSample) ByteRate(period sim.VTimeInSec) float64 {
	return float64(s.Bytes) / float64(period)
}

// RateTracer bins records into fixed periods and writes one line per
// component, kind, and class for every period that had traffic. A period is
// written when the first record of a later period arrives, or on Flush.
type RateTracer struct {
	filter RecordFilter
	period sim.VTimeInSec
	w      io.Writer

	lock          sync.Mutex
	headerWritten bool
	periodStart   sim.VTimeInSec
	bins          map[aggregateKey]*RateSample
	samples       []RateSample
}

// NewRateTracer creates a RateTracer that writes to w. A nil writer keeps the
// samples in memory only.
func NewRateTracer(
	w io.Writer,
	period sim.VTimeInSec,
	filter RecordFilter,
) *RateTracer {
	if period <= 0 {
		panic("rate trace period must be positive")
	}

	if filter == nil {
		filter = AllRecords
	}

	return &RateTracer{
		filter: filter,
		period: period,
		w:      w,
		bins:   make(map[aggregateKey]*RateSample),
	}
}

// Period returns the length of a bin.
func (t *RateTracer) Period() sim.VTimeInSec {
	return t.period
}

// Trace adds the record to the bin of its period.
func (t *RateTracer) Trace(r Record) {
	if !t.filter(r) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if r.Time >= t.periodStart+t.period {
		t.closePeriod()
		t.periodStart = t.periodOf(r.Time)
	}

	key := aggregateKey{where: r.Where, kind: r.Kind, class: r.Class}
	bin, ok := t.bins[key]
	if !ok {
		bin = &RateSample{Where: r.Where, Kind: r.Kind, Class: r.Class}
		t.bins[key] = bin
	}

	bin.Packets++
	bin.Bytes += uint64(r.Bytes)
}

func (t *RateTracer) periodOf(now sim.VTimeInSec) sim.VTimeInSec {
	n := math.Floor(float64(now) / float64(t.period))
	return sim.VTimeInSec(n) * t.period
}

// Flush writes the current period.
func (t *RateTracer) Flush() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.closePeriod()
}

// Samples returns the samples of all the closed periods.
func (t *RateTracer) Samples() []RateSample {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]RateSample(nil), t.samples...)
}

func (t *RateTracer) closePeriod() {
	if len(t.bins) == 0 {
		return
	}

	closed := make([]RateSample, 0, len(t.bins))
	for _, bin := range t.bins {
		bin.Time = t.periodStart + t.period
		closed = append(closed, *bin)
	}

	sort.Slice(closed, func(i, j int) bool {
		a, b := closed[i], closed[j]
		if a.Where != b.Where {
			return a.Where < b.Where
		}

		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}

		return a.Class < b.Class
	})

	t.samples = append(t.samples, closed...)
	t.bins = make(map[aggregateKey]*RateSample)

	t.write(closed)
}

func (t *RateTracer) write(samples []RateSample) {
	if t.w == nil {
		return
	}

	if !t.headerWritten {
		fmt.Fprintf(t.w,
			"Time\tNode\tKind\tClass\tPackets\tBytes\tPacketRate\tByteRate\n")
		t.headerWritten = true
	}

	for _, s := range samples {
		class := s.Class
		if class == "" {
			class = "-"
		}

		fmt.Fprintf(t.w, "%.10f\t%s\t%s\t%s\t%d\t%d\t%.4f\t%.4f\n",
			s.Time, s.Where, s.Kind, class, s.Packets, s.Bytes,
			s.PacketRate(t.period), s.ByteRate(t.period))
	}
}
