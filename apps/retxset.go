package apps

import (
	"slices"
)

// retxSet holds the sequence numbers waiting to be sent again, smallest
// first. A number appears at most once.
type retxSet struct {
	seqs []uint32
}

func (s *retxSet) Insert(seq uint32) bool {
	i, found := slices.BinarySearch(s.seqs, seq)
	if found {
		return false
	}

	s.seqs = slices.Insert(s.seqs, i, seq)

	return true
}

func (s *retxSet) PopSmallest() (uint32, bool) {
	if len(s.seqs) == 0 {
		return 0, false
	}

	seq := s.seqs[0]
	s.seqs = s.seqs[1:]

	return seq, true
}

func (s *retxSet) Len() int {
	return len(s.seqs)
}

func (s *retxSet) Clear() {
	s.seqs = nil
}
