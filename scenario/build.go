package scenario

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ndnapps/ndnapps/apps"
	"github.com/ndnapps/ndnapps/face"
	"github.com/ndnapps/ndnapps/reliability"
	"github.com/ndnapps/ndnapps/sim"
	"github.com/ndnapps/ndnapps/simulation"
	"github.com/ndnapps/ndnapps/tracing"
)

// SinkName is the name of the component that receives all the traffic.
const SinkName = "sink"

// Options are the settings of a run that do not come from the scenario file.
type Options struct {
	// ItemLogger receives one line per generator activity if set.
	ItemLogger *log.Logger

	// EventLogger receives one line per handled event if set.
	EventLogger *log.Logger
}

type generator interface {
	sim.Component
	Start()
}

// startEvent starts a generator at its configured start time.
type startEvent struct {
	*sim.EventBase
	target generator
}

// A Run is a scenario that is built and ready to execute.
type Run struct {
	cfg *Config
	sim *simulation.Simulation

	sink       *face.Sink
	requesters []*apps.Requester
	responders []*apps.Responder
	links      []*face.Link
	trackers   []*reliability.RetxTracker

	tracers   []tracing.Tracer
	aggregate *tracing.AggregateTracer
	rate      *tracing.RateTracer
	rateFile  *os.File
	csv       *tracing.CSVTraceWriter

	itemLogger *apps.ItemLogger
	starts     []*startEvent
	finished   bool
}

// Build creates the components of a scenario. Nothing is scheduled until
// Execute is called.
func Build(cfg *Config, opts Options) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	r := &Run{cfg: cfg}
	r.sim = r.buildSimulation()

	if opts.EventLogger != nil {
		r.sim.GetEngine().AcceptHook(sim.NewEventLogger(opts.EventLogger))
	}

	if opts.ItemLogger != nil {
		r.itemLogger = apps.NewItemLogger(opts.ItemLogger)
	}

	if err := r.buildTracers(); err != nil {
		r.sim.Terminate()
		return nil, err
	}

	r.sink = face.NewSink(SinkName)
	r.register(r.sink)

	for _, rc := range cfg.Requesters {
		r.buildRequester(rc)
	}

	for _, rc := range cfg.Responders {
		r.buildResponder(rc)
	}

	r.openBrowserIfNeeded()

	return r, nil
}

func (r *Run) buildSimulation() *simulation.Simulation {
	b := simulation.MakeBuilder()

	if r.cfg.Monitor.Enabled {
		if r.cfg.Monitor.Port > 0 {
			b = b.WithMonitorPort(r.cfg.Monitor.Port)
		}
	} else {
		b = b.WithoutMonitoring()
	}

	if r.cfg.Record.Enabled {
		b = b.WithOutputFileName(r.cfg.Record.Path)
	} else {
		b = b.WithoutDataRecording()
	}

	if r.cfg.Record.UniqueIDs {
		b = b.WithParallelIDGenerator()
	}

	return b.Build()
}

func (r *Run) buildTracers() error {
	r.aggregate = tracing.NewAggregateTracer(nil)
	r.tracers = append(r.tracers, r.aggregate)

	trace := r.cfg.Trace

	if trace.Rate != "" {
		file, err := os.Create(trace.Rate)
		if err != nil {
			return fmt.Errorf("failed to create rate trace: %w", err)
		}

		period := trace.RatePeriod
		if period == 0 {
			period = DefaultRatePeriod
		}

		r.rateFile = file
		r.rate = tracing.NewRateTracer(file, sim.VTimeInSec(period), nil)
		r.tracers = append(r.tracers, r.rate)
	}

	if trace.CSV != "" {
		r.csv = tracing.NewCSVTraceWriter(
			strings.TrimSuffix(trace.CSV, ".csv"), nil)
		r.csv.Init()
		r.tracers = append(r.tracers, r.csv)
	}

	return nil
}

func (r *Run) register(c sim.Component) {
	r.sim.RegisterComponent(c)

	for _, t := range r.tracers {
		tracing.CollectTrace(c, t)
	}
}

func (r *Run) buildLink(owner string, cfg *LinkConfig) *face.Link {
	lc := cfg.merged(r.cfg.Link)

	b := face.MakeLinkBuilder().
		WithEngine(r.sim.GetEngine()).
		WithReceiver(r.sink).
		WithDropRate(lc.DropRate)
	if lc.Latency != nil {
		b = b.WithLatency(sim.VTimeInSec(*lc.Latency))
	}

	link := b.Build(owner + ".link")
	r.links = append(r.links, link)

	return link
}

func (r *Run) buildRequester(rc RequesterConfig) {
	link := r.buildLink(rc.Name, rc.Link)

	b := apps.MakeRequesterBuilder().
		WithEngine(r.sim.GetEngine()).
		WithTransport(link)
	if rc.Prefix != "" {
		b = b.WithPrefix(rc.Prefix)
	}
	if rc.Identity != "" {
		b = b.WithIdentity(rc.Identity)
	}
	if rc.Frequency > 0 {
		b = b.WithFreq(sim.Freq(rc.Frequency))
	}
	if rc.Randomize != "" {
		b = b.WithRandomize(rc.Randomize)
	}
	if rc.MaxSeq != nil {
		b = b.WithMaxSeq(*rc.MaxSeq)
	}
	if rc.Lifetime > 0 {
		b = b.WithLifetime(sim.VTimeInSec(rc.Lifetime))
	}

	requester := b.Build(rc.Name)
	r.requesters = append(r.requesters, requester)

	r.addGenerator(requester, rc.StartTime, rc.MaxSeq)
	r.register(link)

	if r.cfg.Reliability != nil {
		r.buildTracker(requester, link)
	}
}

func (r *Run) buildTracker(requester *apps.Requester, link *face.Link) {
	b := reliability.MakeBuilder().
		WithEngine(r.sim.GetEngine()).
		WithTimeout(sim.VTimeInSec(r.cfg.Reliability.Timeout)).
		WithRequester(requester)
	if r.cfg.Reliability.CheckFrequency > 0 {
		b = b.WithFreq(sim.Freq(r.cfg.Reliability.CheckFrequency))
	}

	tracker := b.Build(requester.Name() + ".retx")
	requester.AcceptHook(tracker)
	link.AcceptHook(tracker)

	r.trackers = append(r.trackers, tracker)
	r.register(tracker)
}

func (r *Run) buildResponder(rc ResponderConfig) {
	link := r.buildLink(rc.Name, rc.Link)

	b := apps.MakeResponderBuilder().
		WithEngine(r.sim.GetEngine()).
		WithTransport(link).
		WithDataName(rc.DataName)
	if rc.EmergencyInd != "" {
		b = b.WithEmergencyInd(rc.EmergencyInd)
	}
	if rc.Frequency > 0 {
		b = b.WithFreq(sim.Freq(rc.Frequency))
	}
	if rc.Randomize != "" {
		b = b.WithRandomize(rc.Randomize)
	}
	if rc.MaxSeq != nil {
		b = b.WithMaxSeq(*rc.MaxSeq)
	}
	if rc.Freshness > 0 {
		b = b.WithFreshness(sim.VTimeInSec(rc.Freshness))
	}
	if rc.PayloadSize != nil {
		b = b.WithPayloadSize(*rc.PayloadSize)
	}
	if rc.KeyLocator != "" {
		b = b.WithKeyLocator(rc.KeyLocator)
	}
	if rc.SignatureValue != 0 {
		b = b.WithSignatureValue(rc.SignatureValue)
	}

	responder := b.Build(rc.Name)
	r.responders = append(r.responders, responder)

	r.addGenerator(responder, rc.StartTime, rc.MaxSeq)
	r.register(link)
}

func (r *Run) addGenerator(g generator, startTime float64, maxSeq *uint32) {
	if r.itemLogger != nil {
		g.AcceptHook(r.itemLogger)
	}

	r.register(g)

	if m := r.sim.GetMonitor(); m != nil && maxSeq != nil {
		m.TrackGeneration(g, uint64(*maxSeq))
	}

	r.starts = append(r.starts, &startEvent{
		EventBase: sim.NewEventBase(sim.VTimeInSec(startTime), r),
		target:    g,
	})
}

func (r *Run) openBrowserIfNeeded() {
	m := r.sim.GetMonitor()
	if m == nil || !r.cfg.Monitor.OpenBrowser {
		return
	}

	if err := m.OpenBrowser(); err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}

// Handle starts the generator of a start event.
func (r *Run) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *startEvent:
		e.target.Start()
	default:
		return fmt.Errorf("cannot handle event of type %T", e)
	}

	return nil
}

// Execute starts the generators at their start times and runs until the stop
// time. It finishes the run afterwards.
func (r *Run) Execute() error {
	engine := r.sim.GetEngine()
	for _, evt := range r.starts {
		engine.Schedule(evt)
	}

	err := r.sim.RunUntil(sim.VTimeInSec(r.cfg.StopTime))
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	return r.Finish()
}

// Finish flushes the traces, writes the aggregate trace, and closes the
// simulation. Finishing twice does nothing.
func (r *Run) Finish() error {
	if r.finished {
		return nil
	}
	r.finished = true

	if r.rate != nil {
		r.rate.Flush()
		if err := r.rateFile.Close(); err != nil {
			return fmt.Errorf("failed to close rate trace: %w", err)
		}
	}

	if r.csv != nil {
		r.csv.Close()
	}

	if r.cfg.Trace.Aggregate != "" {
		if err := r.writeAggregate(r.cfg.Trace.Aggregate); err != nil {
			return err
		}
	}

	r.sim.Terminate()

	return nil
}

func (r *Run) writeAggregate(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create aggregate trace: %w", err)
	}
	defer file.Close()

	if err := r.aggregate.PrintHeader(file); err != nil {
		return fmt.Errorf("failed to write aggregate trace: %w", err)
	}

	if err := r.aggregate.Print(file); err != nil {
		return fmt.Errorf("failed to write aggregate trace: %w", err)
	}

	return nil
}

// Summary writes the aggregate counters of the run.
func (r *Run) Summary(w io.Writer) error {
	name := r.cfg.Name
	if name == "" {
		name = "scenario"
	}

	_, err := fmt.Fprintf(w, "%s stopped at %.4f, %d items received\n",
		name, r.sim.GetEngine().CurrentTime(),
		r.sink.NumInterests()+r.sink.NumData())
	if err != nil {
		return err
	}

	if err := r.aggregate.PrintHeader(w); err != nil {
		return err
	}

	return r.aggregate.Print(w)
}

// Simulation returns the simulation that holds the components.
func (r *Run) Simulation() *simulation.Simulation {
	return r.sim
}

// Sink returns the component that receives all the traffic.
func (r *Run) Sink() *face.Sink {
	return r.sink
}

// Requesters returns the requesters in the order of the scenario file.
func (r *Run) Requesters() []*apps.Requester {
	return r.requesters
}

// Responders returns the responders in the order of the scenario file.
func (r *Run) Responders() []*apps.Responder {
	return r.responders
}

// Links returns the links, one per generator.
func (r *Run) Links() []*face.Link {
	return r.links
}

// Trackers returns the retransmission trackers.
func (r *Run) Trackers() []*reliability.RetxTracker {
	return r.trackers
}

// Aggregate returns the tracer that counts all the records.
func (r *Run) Aggregate() *tracing.AggregateTracer {
	return r.aggregate
}
