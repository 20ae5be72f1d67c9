// Package ndn defines the Interest and Data packets exchanged by the
// applications.
package ndn

import (
	"strconv"
	"strings"
)

const seqMarker = "seq="

// Name is a hierarchical NDN name, stored as its components.
type Name []string

// ParseName converts a URI such as "/prefix/a" into a Name. Empty components
// are ignored.
func ParseName(uri string) Name {
	n := Name{}

	for _, c := range strings.Split(uri, "/") {
		if c == "" {
			continue
		}

		n = append(n, c)
	}

	return n
}

// Append returns a new name with the component added at the end.
func (n Name) Append(component string) Name {
	out := make(Name, len(n), len(n)+1)
	copy(out, n)

	return append(out, component)
}

// AppendSequenceNumber returns a new name with a sequence number component.
func (n Name) AppendSequenceNumber(seq uint32) Name {
	return n.Append(seqMarker + strconv.FormatUint(uint64(seq), 10))
}

// SequenceNumber extracts the sequence number from the last component.
func (n Name) SequenceNumber() (uint32, bool) {
	if len(n) == 0 {
		return 0, false
	}

	last := n[len(n)-1]
	if !strings.HasPrefix(last, seqMarker) {
		return 0, false
	}

	seq, err := strconv.ParseUint(strings.TrimPrefix(last, seqMarker), 10, 32)
	if err != nil {
		return 0, false
	}

	return uint32(seq), true
}

// Prefix returns the first n components.
func (n Name) Prefix(count int) Name {
	if count > len(n) {
		count = len(n)
	}

	out := make(Name, count)
	copy(out, n[:count])

	return out
}

// Equal checks if two names have the same components.
func (n Name) Equal(other Name) bool {
	if len(n) != len(other) {
		return false
	}

	for i := range n {
		if n[i] != other[i] {
			return false
		}
	}

	return true
}

// String returns the URI form of the name.
func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}

	return "/" + strings.Join(n, "/")
}
