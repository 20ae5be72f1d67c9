package tracing

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AggregateTracer", func() {
	var t *AggregateTracer

	BeforeEach(func() {
		t = NewAggregateTracer(nil)
	})

	It("should count packets and bytes per node, kind, and class", func() {
		t.Trace(Record{Where: "req", Kind: KindSent, Class: "Interest", Bytes: 20})
		t.Trace(Record{Where: "req", Kind: KindSent, Class: "Interest", Bytes: 22})
		t.Trace(Record{Where: "req", Kind: KindRetx, Seq: 1})
		t.Trace(Record{Where: "prod", Kind: KindSent, Class: "Data", Bytes: 1050})

		Expect(t.Packets("req", KindSent)).To(Equal(uint64(2)))
		Expect(t.Packets("req", KindRetx)).To(Equal(uint64(1)))
		Expect(t.Packets("prod", KindSent)).To(Equal(uint64(1)))
		Expect(t.Packets("prod", KindDropped)).To(BeZero())

		entries := t.Entries()
		Expect(entries).To(Equal([]AggregateEntry{
			{Where: "prod", Kind: KindSent, Class: "Data", Packets: 1, Bytes: 1050},
			{Where: "req", Kind: KindRetx, Packets: 1},
			{Where: "req", Kind: KindSent, Class: "Interest", Packets: 2, Bytes: 42},
		}))
	})

	It("should skip filtered records", func() {
		t = NewAggregateTracer(KindIs(KindDropped))

		t.Trace(Record{Where: "link", Kind: KindDropped})
		t.Trace(Record{Where: "link", Kind: KindDelivered})

		Expect(t.Packets("link", KindDropped)).To(Equal(uint64(1)))
		Expect(t.Packets("link", KindDelivered)).To(BeZero())
	})

	It("should print a table", func() {
		t.Trace(Record{Where: "req", Kind: KindSent, Class: "Interest", Bytes: 20})
		t.Trace(Record{Where: "req", Kind: KindDone})

		buf := new(bytes.Buffer)
		Expect(t.PrintHeader(buf)).To(Succeed())
		Expect(t.Print(buf)).To(Succeed())

		Expect(buf.String()).To(Equal(
			"Node\tKind\tClass\tPackets\tBytes\n" +
				"req\tGenerationDone\t-\t1\t0\n" +
				"req\tSent\tInterest\t1\t20\n"))
	})
})
