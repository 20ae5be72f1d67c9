// Package simulation puts an engine, a data recorder, and a monitor together
// and keeps track of the components of a run.
package simulation

import (
	"github.com/ndnapps/ndnapps/datarecording"
	"github.com/ndnapps/ndnapps/monitoring"
	"github.com/ndnapps/ndnapps/sim"
	"github.com/ndnapps/ndnapps/tracing"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id     string
	engine *sim.SerialEngine

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	visTracer    *tracing.DBTracer

	components    []sim.Component
	compNameIndex map[string]int

	terminated bool
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// if data recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil if
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetVisTracer returns the tracer that writes into the data recorder.
func (s *Simulation) GetVisTracer() *tracing.DBTracer {
	return s.visTracer
}

// RegisterComponent registers a component with the simulation. The
// component is traced into the database and shown in the monitor.
func (s *Simulation) RegisterComponent(c sim.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if s.visTracer != nil {
		tracing.CollectTrace(c, s.visTracer)
	}

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// GetComponentByName returns the component with the given name, or nil if no
// component has the name.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// RunUntil runs the engine until the given time and then invokes the
// simulation end handlers.
func (s *Simulation) RunUntil(t sim.VTimeInSec) error {
	err := s.engine.RunUntil(t)
	if err != nil {
		return err
	}

	s.engine.Finished()

	return nil
}

// Terminate closes the trace session and the data recorder. Terminating
// twice does nothing.
func (s *Simulation) Terminate() {
	if s.terminated {
		return
	}
	s.terminated = true

	if s.visTracer != nil {
		s.visTracer.StopTracing(s.engine.CurrentTime())
	}

	if s.dataRecorder != nil {
		err := s.dataRecorder.Close()
		if err != nil {
			panic(err)
		}
	}
}
