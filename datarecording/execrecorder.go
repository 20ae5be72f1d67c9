package datarecording

import (
	"os"
	"strings"
	"time"
)

const execTableName = "exec_info"

// execInfo is a property of the program execution.
type execInfo struct {
	Property string
	Value    string
}

// execRecorder records when and how the program runs.
type execRecorder struct {
	recorder DataRecorder
	entries  []execInfo
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{recorder: recorder}
	recorder.CreateTable(execTableName, execInfo{})

	return e
}

// Start captures the start time, the command line and the working directory.
func (e *execRecorder) Start() {
	e.entries = append(e.entries,
		execInfo{"Start Time", now()},
		execInfo{"Command", strings.Join(os.Args, " ")},
	)

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.entries = append(e.entries, execInfo{"Working Directory", cwd})
}

// End writes the entries together with the end time.
func (e *execRecorder) End() {
	e.entries = append(e.entries, execInfo{"End Time", now()})

	for _, entry := range e.entries {
		e.recorder.InsertData(execTableName, entry)
	}

	e.entries = nil
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}
