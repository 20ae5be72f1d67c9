package ndn

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Interest", func() {
	It("should build with defaults", func() {
		i := MakeInterestBuilder().
			WithPrefix(ParseName("/prefix")).
			WithSeq(3).
			Build()

		Expect(i.Name.String()).To(Equal("/prefix/seq=3"))
		Expect(i.Identity).To(Equal("none"))
		Expect(float64(i.Lifetime)).To(Equal(2.0))
		Expect(i.ID).NotTo(BeEmpty())
		Expect(i.Meta().TrafficClass).To(Equal("Interest"))
	})

	It("should clone with a new id", func() {
		i := MakeInterestBuilder().
			WithPrefix(ParseName("/prefix")).
			WithSeq(3).
			WithNonce(7).
			WithIdentity("car1").
			Build()

		c := i.Clone().(*Interest)
		Expect(c.ID).NotTo(Equal(i.ID))
		Expect(c.Name).To(Equal(i.Name))
		Expect(c.Nonce).To(Equal(uint32(7)))
		Expect(c.Identity).To(Equal("car1"))

		c.Name[0] = "other"
		Expect(i.Name.String()).To(Equal("/prefix/seq=3"))
	})
})

var _ = Describe("Data", func() {
	It("should build with payload and tags", func() {
		d := MakeDataBuilder().
			WithPrefix(ParseName("/alert")).
			WithSeq(5).
			WithPayloadSize(100).
			WithFreshness(1).
			WithEmergencyInd(EmergencyEmergency).
			WithBornTime(1.5).
			Build()

		Expect(d.Name.String()).To(Equal("/alert/seq=5"))
		Expect(d.Content).To(HaveLen(100))
		Expect(d.IsEmergency()).To(BeTrue())
		Expect(d.BornTimeNanos()).To(Equal(int64(1500000000)))
		Expect(d.TrafficBytes).To(BeNumerically(">", 100))
	})

	It("should default to no emergency", func() {
		d := MakeDataBuilder().Build()
		Expect(d.EmergencyInd).To(Equal(EmergencyNone))
		Expect(d.IsEmergency()).To(BeFalse())
	})

	It("should panic on negative payload size", func() {
		Expect(func() {
			MakeDataBuilder().WithPayloadSize(-1).Build()
		}).To(Panic())
	})

	It("should be signed by the fake signer", func() {
		d := MakeDataBuilder().Build()
		FakeSigner{KeyLocator: ParseName("/key"), Value: 9}.Sign(d)

		Expect(d.Signature.Type).To(Equal(SignatureTypeFake))
		Expect(d.Signature.KeyLocator.String()).To(Equal("/key"))
		Expect(d.Signature.Value).To(Equal(uint32(9)))
	})
})
