package simulation

import (
	"github.com/ndnapps/ndnapps/datarecording"
	"github.com/ndnapps/ndnapps/monitoring"
	"github.com/ndnapps/ndnapps/sim"
	"github.com/ndnapps/ndnapps/tracing"
	"github.com/rs/xid"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
	traceStartTime sim.VTimeInSec
	traceEndTime   sim.VTimeInSec
	uniqueIDs      bool
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:   true,
		recordingOn: true,
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithoutDataRecording sets the simulation to not create a database.
func (b Builder) WithoutDataRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithTraceTimeRange limits the records written to the database.
func (b Builder) WithTraceTimeRange(start, end sim.VTimeInSec) Builder {
	b.traceStartTime = start
	b.traceEndTime = end

	return b
}

// WithParallelIDGenerator makes the simulation name its messages and events
// with globally unique IDs rather than a counter. Records from different runs
// can then be merged without ID clashes.
func (b Builder) WithParallelIDGenerator() Builder {
	b.uniqueIDs = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file cannot be set when data recording is disabled")
	}

	if b.traceEndTime > 0 && b.traceEndTime < b.traceStartTime {
		panic("trace end time must not be earlier than the start time")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	if b.uniqueIDs {
		sim.UseParallelIDGenerator()
	}

	s := &Simulation{
		compNameIndex: make(map[string]int),
	}

	s.id = xid.New().String()
	s.engine = sim.NewSerialEngine()

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "ndnapps_sim_" + s.id
		}
		s.dataRecorder = datarecording.New(outputPath)

		s.visTracer = tracing.NewDBTracer(s.dataRecorder)
		s.visTracer.SetTimeRange(b.traceStartTime, b.traceEndTime)
		s.visTracer.StartTracing(s.engine.CurrentTime())
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterEngine(s.engine)
		s.monitor.StartServer()
	}

	return s
}
