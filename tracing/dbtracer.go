package tracing

import (
	"fmt"
	"sync"

	"github.com/ndnapps/ndnapps/datarecording"
	"github.com/ndnapps/ndnapps/sim"
	"github.com/tebeka/atexit"
)

type recordTableEntry struct {
	Time  float64
	Node  string
	Kind  string
	Class string
	Name  string
	Seq   uint32
	Bytes int
	Tag   string
	MsgID string
}

type traceIndexEntry struct {
	TableName    string
	SessionStart float64
	SessionEnd   float64
}

// DBTracer is a tracer that stores records into a data recorder. Records are
// grouped into sessions. Each session has its own table, and the trace table
// lists the sessions.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder

	startTime, endTime sim.VTimeInSec

	isTracingFlag    bool
	traceCount       int
	currentTableName string
	sessionStartTime sim.VTimeInSec
	lastRecordTime   sim.VTimeInSec
	numRecords       int
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	dataRecorder.CreateTable("trace", traceIndexEntry{})

	t := &DBTracer{
		backend: dataRecorder,
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange limits the records to those between startTime and endTime. A
// zero bound is open.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// IsTracing returns if a session is open.
func (t *DBTracer) IsTracing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.isTracingFlag
}

// NumRecords returns the number of records written since creation.
func (t *DBTracer) NumRecords() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.numRecords
}

// StartTracing opens a new session at the given time.
func (t *DBTracer) StartTracing(now sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isTracingFlag {
		return
	}

	t.isTracingFlag = true
	t.traceCount++
	t.sessionStartTime = now
	t.lastRecordTime = now
	t.currentTableName = fmt.Sprintf("trace%d", t.traceCount)
	t.backend.CreateTable(t.currentTableName, recordTableEntry{})
}

// StopTracing closes the current session at the given time.
func (t *DBTracer) StopTracing(now sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeSession(now)
	t.backend.Flush()
}

func (t *DBTracer) closeSession(now sim.VTimeInSec) {
	if !t.isTracingFlag {
		return
	}

	t.isTracingFlag = false
	t.backend.InsertData("trace", traceIndexEntry{
		TableName:    t.currentTableName,
		SessionStart: float64(t.sessionStartTime),
		SessionEnd:   float64(now),
	})
}

// Trace writes the record into the table of the current session.
func (t *DBTracer) Trace(r Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isTracingFlag {
		return
	}

	if t.startTime > 0 && r.Time < t.startTime {
		return
	}

	if t.endTime > 0 && r.Time > t.endTime {
		return
	}

	t.backend.InsertData(t.currentTableName, recordTableEntry{
		Time:  float64(r.Time),
		Node:  r.Where,
		Kind:  r.Kind,
		Class: r.Class,
		Name:  r.Name,
		Seq:   r.Seq,
		Bytes: r.Bytes,
		Tag:   r.Tag,
		MsgID: r.MsgID,
	})

	t.lastRecordTime = r.Time
	t.numRecords++
}

// Terminate closes the open session at the time of the last record and
// flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeSession(t.lastRecordTime)
	t.backend.Flush()
}
