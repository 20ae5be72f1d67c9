package scenario

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ndnapps/ndnapps/tracing"
)

func uint32Ptr(v uint32) *uint32 {
	return &v
}

func float64Ptr(v float64) *float64 {
	return &v
}

var _ = Describe("Run", func() {
	var (
		dir string
		cfg *Config
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		cfg = &Config{
			Name:     "test",
			StopTime: 10,
			Link:     LinkConfig{Latency: float64Ptr(0.01)},
			Requesters: []RequesterConfig{{
				Name:     "car1",
				Prefix:   "/road",
				Identity: "car1",
				MaxSeq:   uint32Ptr(3),
			}},
			Responders: []ResponderConfig{{
				Name:         "rsu",
				DataName:     "/alert",
				EmergencyInd: "emergency",
				Frequency:    2,
				MaxSeq:       uint32Ptr(4),
				StartTime:    1,
			}},
		}
	})

	It("should build one link per generator", func() {
		run, err := Build(cfg, Options{})
		Expect(err).NotTo(HaveOccurred())
		defer run.Finish()

		Expect(run.Requesters()).To(HaveLen(1))
		Expect(run.Responders()).To(HaveLen(1))
		Expect(run.Links()).To(HaveLen(2))
		Expect(run.Trackers()).To(BeEmpty())
		Expect(run.Simulation().GetComponentByName("car1.link")).
			NotTo(BeNil())
		Expect(run.Simulation().GetComponentByName(SinkName)).
			To(Equal(run.Sink()))
	})

	It("should run the generators until their caps", func() {
		run, err := Build(cfg, Options{})
		Expect(err).NotTo(HaveOccurred())

		Expect(run.Execute()).To(Succeed())

		Expect(run.Sink().NumInterests()).To(Equal(uint64(3)))
		Expect(run.Sink().NumData()).To(Equal(uint64(4)))
		Expect(run.Sink().NumEmergency()).To(Equal(uint64(4)))
		Expect(run.Requesters()[0].IsDone()).To(BeTrue())
		Expect(run.Responders()[0].IsDone()).To(BeTrue())

		agg := run.Aggregate()
		Expect(agg.Packets("car1", tracing.KindSent)).To(Equal(uint64(3)))
		Expect(agg.Packets("rsu", tracing.KindSent)).To(Equal(uint64(4)))
		Expect(agg.Packets(SinkName, tracing.KindReceived)).
			To(Equal(uint64(7)))
		Expect(agg.Packets("car1", tracing.KindDone)).To(Equal(uint64(1)))
	})

	It("should start generators at their start times", func() {
		buf := new(bytes.Buffer)
		logger := log.New(buf, "", 0)

		run, err := Build(cfg, Options{ItemLogger: logger})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Execute()).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(ContainElement(
			"0.0000000000, car1, > Interest for 0 from car1"))
		Expect(lines).To(ContainElement(
			"1.0000000000, rsu, > Data /alert/seq=0 [emergency]"))
		Expect(lines).To(ContainElement(
			"1.5000000000, rsu, > Data /alert/seq=1 [emergency]"))
	})

	It("should log events", func() {
		buf := new(bytes.Buffer)

		run, err := Build(cfg, Options{EventLogger: log.New(buf, "", 0)})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Execute()).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("startEvent"))
		Expect(buf.String()).To(ContainSubstring("-> car1"))
	})

	It("should recover dropped interests with reliability", func() {
		cfg.Responders = nil
		cfg.StopTime = 200
		cfg.Requesters[0].MaxSeq = uint32Ptr(10)
		cfg.Link.DropRate = 0.3
		cfg.Reliability = &ReliabilityConfig{Timeout: 1.5}

		run, err := Build(cfg, Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Trackers()).To(HaveLen(1))

		Expect(run.Execute()).To(Succeed())

		for seq := uint32(0); seq < 10; seq++ {
			Expect(run.Sink().TimesReceived("car1", seq)).To(Equal(1))
		}

		link := run.Links()[0]
		Expect(link.NumSent()).To(Equal(10 + run.Trackers()[0].NumTimeouts()))
		Expect(link.NumDropped()).To(Equal(run.Trackers()[0].NumTimeouts()))
	})

	It("should write the trace files", func() {
		cfg.Trace = TraceConfig{
			Aggregate:  filepath.Join(dir, "aggregate.txt"),
			Rate:       filepath.Join(dir, "rate.txt"),
			RatePeriod: 1,
			CSV:        filepath.Join(dir, "trace.csv"),
		}

		run, err := Build(cfg, Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Execute()).To(Succeed())
		Expect(run.Finish()).To(Succeed())

		agg, err := os.ReadFile(cfg.Trace.Aggregate)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(agg)).To(HavePrefix("Node\tKind\tClass\tPackets\tBytes\n"))
		Expect(string(agg)).To(ContainSubstring("car1\tSent\tInterest\t3\t"))

		rate, err := os.ReadFile(cfg.Trace.Rate)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(rate)).To(HavePrefix("Time\tNode"))
		Expect(string(rate)).To(ContainSubstring("1.0000000000\tcar1\tSent"))

		csv, err := os.ReadFile(filepath.Join(dir, "trace.csv"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(csv)).To(ContainSubstring("car1, Sent, Interest, /road/seq=0, 0"))
	})

	It("should record into a database", func() {
		cfg.Record = RecordConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "record"),
		}

		run, err := Build(cfg, Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Execute()).To(Succeed())

		Expect(run.Simulation().GetVisTracer().NumRecords()).
			To(BeNumerically(">", 0))

		_, err = os.Stat(filepath.Join(dir, "record.sqlite3"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should name packets with unique IDs when asked to", func() {
		cfg.Trace.CSV = filepath.Join(dir, "trace.csv")
		cfg.Record.UniqueIDs = true

		run, err := Build(cfg, Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Execute()).To(Succeed())

		csv, err := os.ReadFile(cfg.Trace.CSV)
		Expect(err).NotTo(HaveOccurred())
		lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
		Expect(len(lines)).To(BeNumerically(">", 1))

		fields := strings.Split(lines[1], ", ")
		Expect(fields[len(fields)-1]).To(HaveLen(20))
	})

	It("should print a summary", func() {
		run, err := Build(cfg, Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Execute()).To(Succeed())

		buf := new(bytes.Buffer)
		Expect(run.Summary(buf)).To(Succeed())

		Expect(buf.String()).To(HavePrefix(
			"test stopped at 10.0000, 7 items received\n"))
		Expect(buf.String()).To(ContainSubstring("rsu\tSent\tData\t4\t"))
	})

	It("should reject invalid configurations", func() {
		cfg.StopTime = 0

		_, err := Build(cfg, Options{})

		Expect(err).To(MatchError(ContainSubstring("stop_time")))
	})
})
