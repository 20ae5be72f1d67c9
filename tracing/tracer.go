// Package tracing turns the hooks of generators, links, and sinks into packet
// records and collects them into traces.
package tracing

import (
	"github.com/ndnapps/ndnapps/sim"
)

// Kinds of records.
const (
	KindSent      = "Sent"
	KindRetx      = "RetxMarked"
	KindDone      = "GenerationDone"
	KindDropped   = "Dropped"
	KindDelivered = "Delivered"
	KindReceived  = "Received"
	KindTimeout   = "Timeout"
)

// A Record describes one thing that happened to a packet.
type Record struct {
	Time  sim.VTimeInSec
	Where string
	Kind  string
	Class string
	Name  string
	Seq   uint32
	Bytes int
	Tag   string

	// MsgID identifies the packet. All the records of one packet share it.
	MsgID string
}

// A Tracer can collect packet records.
type Tracer interface {
	Trace(r Record)
}

// RecordFilter decides if a record should be collected.
type RecordFilter func(r Record) bool

// AllRecords is a filter that accepts every record.
func AllRecords(Record) bool {
	return true
}

// KindIs returns a filter that only accepts records of the given kinds.
func KindIs(kinds ...string) RecordFilter {
	return func(r Record) bool {
		for _, k := range kinds {
			if r.Kind == k {
				return true
			}
		}

		return false
	}
}
