package ndn

// FakeSigner fills in a placeholder signature. The value is carried as is and
// nothing is computed from the packet content.
type FakeSigner struct {
	KeyLocator Name
	Value      uint32
}

// Sign attaches the placeholder signature to the Data.
func (s FakeSigner) Sign(d *Data) {
	d.Signature = SignatureInfo{
		Type:       SignatureTypeFake,
		KeyLocator: s.KeyLocator,
		Value:      s.Value,
	}
}
