// Package scenario describes a run of requesters and responders in YAML and
// turns the description into a simulation.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the content of a scenario file.
type Config struct {
	// Name is printed in the summary.
	Name string `yaml:"name"`

	// StopTime is the simulated time at which the run ends.
	StopTime float64 `yaml:"stop_time"`

	// Link is the default link between a generator and the sink.
	Link LinkConfig `yaml:"link"`

	Requesters []RequesterConfig `yaml:"requesters"`
	Responders []ResponderConfig `yaml:"responders"`

	// Reliability adds a retransmission tracker to every requester.
	Reliability *ReliabilityConfig `yaml:"reliability,omitempty"`

	Trace   TraceConfig   `yaml:"trace,omitempty"`
	Record  RecordConfig  `yaml:"record,omitempty"`
	Monitor MonitorConfig `yaml:"monitor,omitempty"`
}

// LinkConfig describes a lossy link.
type LinkConfig struct {
	Latency  *float64 `yaml:"latency,omitempty"`
	DropRate float64  `yaml:"drop_rate,omitempty"`
}

// RequesterConfig describes one requester.
type RequesterConfig struct {
	Name      string      `yaml:"name"`
	Prefix    string      `yaml:"prefix"`
	Identity  string      `yaml:"identity,omitempty"`
	Frequency float64     `yaml:"frequency,omitempty"`
	Randomize string      `yaml:"randomize,omitempty"`
	MaxSeq    *uint32     `yaml:"max_seq,omitempty"`
	Lifetime  float64     `yaml:"lifetime,omitempty"`
	StartTime float64     `yaml:"start_time,omitempty"`
	Link      *LinkConfig `yaml:"link,omitempty"`
}

// ResponderConfig describes one responder.
type ResponderConfig struct {
	Name           string      `yaml:"name"`
	DataName       string      `yaml:"data_name"`
	EmergencyInd   string      `yaml:"emergency_ind,omitempty"`
	Frequency      float64     `yaml:"frequency,omitempty"`
	Randomize      string      `yaml:"randomize,omitempty"`
	MaxSeq         *uint32     `yaml:"max_seq,omitempty"`
	Freshness      float64     `yaml:"freshness,omitempty"`
	PayloadSize    *int        `yaml:"payload_size,omitempty"`
	KeyLocator     string      `yaml:"key_locator,omitempty"`
	SignatureValue uint32      `yaml:"signature_value,omitempty"`
	StartTime      float64     `yaml:"start_time,omitempty"`
	Link           *LinkConfig `yaml:"link,omitempty"`
}

// ReliabilityConfig describes the retransmission trackers.
type ReliabilityConfig struct {
	Timeout        float64 `yaml:"timeout"`
	CheckFrequency float64 `yaml:"check_frequency,omitempty"`
}

// TraceConfig names the trace files. An empty path disables the trace.
type TraceConfig struct {
	Aggregate  string  `yaml:"aggregate,omitempty"`
	Rate       string  `yaml:"rate,omitempty"`
	RatePeriod float64 `yaml:"rate_period,omitempty"`
	CSV        string  `yaml:"csv,omitempty"`
}

// RecordConfig controls the SQLite database of the run.
type RecordConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`

	// UniqueIDs names packets with globally unique IDs so that the records
	// of several runs can share one database.
	UniqueIDs bool `yaml:"unique_ids,omitempty"`
}

// MonitorConfig controls the monitoring server.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port,omitempty"`
	OpenBrowser bool `yaml:"open_browser,omitempty"`
}

// DefaultRatePeriod is the rate trace period used when none is given.
const DefaultRatePeriod = 1.0

// LoadEnv loads variables from dotenv files into the process environment.
// Variables that are already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		return nil
	}

	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	return nil
}

// Load reads a scenario file. References to environment variables such as
// ${PREFIX} are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return Parse(data)
}

// Parse parses the content of a scenario file.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the scenario can be built.
func (c *Config) Validate() error {
	if c.StopTime <= 0 {
		return errors.New("stop_time must be positive")
	}

	if len(c.Requesters) == 0 && len(c.Responders) == 0 {
		return errors.New("at least one requester or responder is required")
	}

	if err := c.Link.validate("link"); err != nil {
		return err
	}

	names := make(map[string]bool)
	for i, r := range c.Requesters {
		where := fmt.Sprintf("requesters[%d]", i)
		if err := validateGenerator(where, r.Name, r.Frequency, r.StartTime,
			r.Link, names); err != nil {
			return err
		}

		if r.Lifetime < 0 {
			return fmt.Errorf("%s: lifetime must not be negative", where)
		}
	}

	for i, r := range c.Responders {
		where := fmt.Sprintf("responders[%d]", i)
		if err := validateGenerator(where, r.Name, r.Frequency, r.StartTime,
			r.Link, names); err != nil {
			return err
		}

		if r.DataName == "" {
			return fmt.Errorf("%s: data_name is required", where)
		}

		if r.PayloadSize != nil && *r.PayloadSize < 0 {
			return fmt.Errorf("%s: payload_size must not be negative", where)
		}

		if r.Freshness < 0 {
			return fmt.Errorf("%s: freshness must not be negative", where)
		}
	}

	if c.Reliability != nil {
		if c.Reliability.Timeout <= 0 {
			return errors.New("reliability: timeout must be positive")
		}

		if c.Reliability.CheckFrequency < 0 {
			return errors.New(
				"reliability: check_frequency must not be negative")
		}
	}

	if c.Trace.RatePeriod < 0 {
		return errors.New("trace: rate_period must not be negative")
	}

	if c.Monitor.Port < 0 {
		return errors.New("monitor: port must not be negative")
	}

	return nil
}

func validateGenerator(
	where, name string,
	freq, startTime float64,
	link *LinkConfig,
	names map[string]bool,
) error {
	if name == "" {
		return fmt.Errorf("%s: name is required", where)
	}

	if strings.ContainsAny(name, " \t\n,") {
		return fmt.Errorf("%s: name %q contains invalid character", where, name)
	}

	if names[name] || name == SinkName {
		return fmt.Errorf("%s: duplicated name %q", where, name)
	}
	names[name] = true

	if freq < 0 {
		return fmt.Errorf("%s: frequency must not be negative", where)
	}

	if startTime < 0 {
		return fmt.Errorf("%s: start_time must not be negative", where)
	}

	if link != nil {
		return link.validate(where + ".link")
	}

	return nil
}

func (l LinkConfig) validate(where string) error {
	if l.Latency != nil && *l.Latency < 0 {
		return fmt.Errorf("%s: latency must not be negative", where)
	}

	if l.DropRate < 0 || l.DropRate > 1 {
		return fmt.Errorf("%s: drop_rate must be between 0 and 1", where)
	}

	return nil
}

// merged returns the link of a generator, filling unset fields from the
// default link.
func (l *LinkConfig) merged(def LinkConfig) LinkConfig {
	if l == nil {
		return def
	}

	out := *l
	if out.Latency == nil {
		out.Latency = def.Latency
	}

	return out
}
