package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTraceWriter is a tracer that can store the records into a CSV file.
type CSVTraceWriter struct {
	path   string
	file   *os.File
	filter RecordFilter

	records    []Record
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter.
func NewCSVTraceWriter(path string, filter RecordFilter) *CSVTraceWriter {
	if filter == nil {
		filter = AllRecords
	}

	return &CSVTraceWriter{
		path:       path,
		filter:     filter,
		bufferSize: 1000,
	}
}

// Path returns the path of the CSV file without the extension.
func (t *CSVTraceWriter) Path() string {
	return t.path
}

// Init creates the tracing csv file. It panics if the file already exists.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "ndnapps_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "Time, Node, Kind, Class, Name, Seq, Bytes, Tag, MsgID\n")

	atexit.Register(func() {
		t.Close()
	})
}

// Trace buffers a record and writes the buffer when it is full.
func (t *CSVTraceWriter) Trace(r Record) {
	if !t.filter(r) {
		return
	}

	t.records = append(t.records, r)
	if len(t.records) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered records to the CSV file.
func (t *CSVTraceWriter) Flush() {
	if t.file == nil {
		return
	}

	for _, r := range t.records {
		fmt.Fprintf(t.file, "%.10f, %s, %s, %s, %s, %d, %d, %s, %s\n",
			r.Time,
			r.Where,
			r.Kind,
			r.Class,
			r.Name,
			r.Seq,
			r.Bytes,
			r.Tag,
			r.MsgID,
		)
	}

	t.records = nil
}

// Close flushes the records and closes the file. Closing a closed writer
// does nothing.
func (t *CSVTraceWriter) Close() {
	if t.file == nil {
		return
	}

	t.Flush()

	err := t.file.Close()
	if err != nil {
		panic(err)
	}

	t.file = nil
}
