package tracing

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// AggregateEntry is the number of packets and bytes of one kind that a
// component has seen.
type AggregateEntry struct {
	Where   string
	Kind    string
	Class   string
	Packets uint64
	Bytes   uint64
}

type aggregateKey struct {
	where, kind, class string
}

// AggregateTracer counts the records of each component, kind, and packet
// class over the whole run.
type AggregateTracer struct {
	filter RecordFilter
	lock   sync.Mutex
	counts map[aggregateKey]*AggregateEntry
}

// NewAggregateTracer creates a new AggregateTracer.
func NewAggregateTracer(filter RecordFilter) *AggregateTracer {
	if filter == nil {
		filter = AllRecords
	}

	return &AggregateTracer{
		filter: filter,
		counts: make(map[aggregateKey]*AggregateEntry),
	}
}

// Trace counts the record.
func (t *AggregateTracer) Trace(r Record) {
	if !t.filter(r) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	key := aggregateKey{where: r.Where, kind: r.Kind, class: r.Class}
	entry, ok := t.counts[key]
	if !ok {
		entry = &AggregateEntry{Where: r.Where, Kind: r.Kind, Class: r.Class}
		t.counts[key] = entry
	}

	entry.Packets++
	entry.Bytes += uint64(r.Bytes)
}

// Packets returns the number of records of a kind seen at a component.
// Records of all packet classes are added together.
func (t *AggregateTracer) Packets(where, kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	var n uint64
	for k, e := range t.counts {
		if k.where == where && k.kind == kind {
			n += e.Packets
		}
	}

	return n
}

// Entries returns all the counters, sorted by component, kind, and class.
func (t *AggregateTracer) Entries() []AggregateEntry {
	t.lock.Lock()
	defer t.lock.Unlock()

	entries := make([]AggregateEntry, 0, len(t.counts))
	for _, e := range t.counts {
		entries = append(entries, *e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Where != b.Where {
			return a.Where < b.Where
		}

		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}

		return a.Class < b.Class
	})

	return entries
}

// PrintHeader writes the column names.
func (t *AggregateTracer) PrintHeader(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Node\tKind\tClass\tPackets\tBytes\n")
	return err
}

// Print writes one line per counter.
func (t *AggregateTracer) Print(w io.Writer) error {
	for _, e := range t.Entries() {
		class := e.Class
		if class == "" {
			class = "-"
		}

		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			e.Where, e.Kind, class, e.Packets, e.Bytes)
		if err != nil {
			return err
		}
	}

	return nil
}
