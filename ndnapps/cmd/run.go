package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/ndnapps/ndnapps/scenario"
	"github.com/spf13/cobra"
)

// RunOptions holds the flags of the run command.
type RunOptions struct {
	*RootOptions

	Scenario       string
	EnvFiles       []string
	StopTime       float64
	AggregateTrace string
	RateTrace      string
	RatePeriod     float64
	CSVTrace       string
	Record         string
	UniqueIDs      bool
	Monitor        bool
	MonitorPort    int
	OpenBrowser    bool
	Debug          bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario.",
		Long: `Run builds the requesters and responders of a scenario file, ` +
			`connects each of them to the sink with its own link, runs the ` +
			`simulation until the stop time, and prints a summary.

Example:
  ndnapps run --scenario highway.yaml --stop-time 60
  ndnapps run --scenario highway.yaml --env-file .env --rate-trace rate.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScenario(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Scenario, "scenario", "s", "",
		"path to the scenario file (required)")
	f.StringSliceVar(&opts.EnvFiles, "env-file", nil,
		"dotenv files that define variables used in the scenario")
	f.Float64Var(&opts.StopTime, "stop-time", 0,
		"simulated time to stop at, overrides the scenario")
	f.StringVar(&opts.AggregateTrace, "aggregate-trace", "",
		"path of the aggregate trace")
	f.StringVar(&opts.RateTrace, "rate-trace", "", "path of the rate trace")
	f.Float64Var(&opts.RatePeriod, "rate-period", 0,
		"period of the rate trace in simulated seconds")
	f.StringVar(&opts.CSVTrace, "csv-trace", "",
		"path of the CSV trace of every packet")
	f.StringVar(&opts.Record, "record", "",
		"record the run into an SQLite database with this name")
	f.BoolVar(&opts.UniqueIDs, "unique-ids", false,
		"name packets with globally unique IDs instead of a counter")
	f.BoolVar(&opts.Monitor, "monitor", false, "start the monitoring server")
	f.IntVar(&opts.MonitorPort, "monitor-port", 0,
		"port of the monitoring server")
	f.BoolVar(&opts.OpenBrowser, "open-browser", false,
		"open the monitoring page in a browser")
	f.BoolVar(&opts.Debug, "debug", false, "print every event to stderr")
	_ = cmd.MarkFlagRequired("scenario")

	return cmd
}

func runScenario(cmd *cobra.Command, opts *RunOptions) error {
	err := scenario.LoadEnv(opts.EnvFiles...)
	if err != nil {
		return err
	}

	cfg, err := scenario.Load(opts.Scenario)
	if err != nil {
		return err
	}

	err = applyOverrides(cmd, opts, cfg)
	if err != nil {
		return err
	}

	buildOpts := scenario.Options{}
	if opts.Verbose {
		buildOpts.ItemLogger = log.New(cmd.ErrOrStderr(), "", 0)
	}
	if opts.Debug {
		buildOpts.EventLogger = log.New(cmd.ErrOrStderr(), "", 0)
	}

	run, err := scenario.Build(cfg, buildOpts)
	if err != nil {
		return err
	}

	err = run.Execute()
	if err != nil {
		return err
	}

	return run.Summary(cmd.OutOrStdout())
}

func applyOverrides(
	cmd *cobra.Command,
	opts *RunOptions,
	cfg *scenario.Config,
) error {
	f := cmd.Flags()

	if f.Changed("stop-time") {
		cfg.StopTime = opts.StopTime
	}
	if f.Changed("aggregate-trace") {
		cfg.Trace.Aggregate = opts.AggregateTrace
	}
	if f.Changed("rate-trace") {
		cfg.Trace.Rate = opts.RateTrace
	}
	if f.Changed("rate-period") {
		cfg.Trace.RatePeriod = opts.RatePeriod
	}
	if f.Changed("csv-trace") {
		cfg.Trace.CSV = opts.CSVTrace
	}
	if f.Changed("record") {
		cfg.Record.Enabled = true
		cfg.Record.Path = opts.Record
	}
	if f.Changed("unique-ids") {
		cfg.Record.UniqueIDs = opts.UniqueIDs
	}
	if f.Changed("monitor") {
		cfg.Monitor.Enabled = opts.Monitor
	}
	if f.Changed("monitor-port") {
		cfg.Monitor.Enabled = true
		cfg.Monitor.Port = opts.MonitorPort
	}
	if f.Changed("open-browser") {
		cfg.Monitor.OpenBrowser = opts.OpenBrowser
	}

	if cfg.Monitor.OpenBrowser && !cfg.Monitor.Enabled {
		return errors.New("--open-browser requires the monitor")
	}

	err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	return nil
}
