package kecil

import "math/bits"

const (
	bitsPerWord = 64
	setWords    = MaxEntities / bitsPerWord
)

// entitySet holds one bit per entity index. Stores use it as their presence
// marker, the registry as its live marker, and queries combine them word by
// word.
type entitySet [setWords]uint64

// set enables the bit for the given index.
func (s *entitySet) set(i uint16) {
	s[i>>6] |= uint64(1) << (i & 63)
}

// unset disables the bit for the given index.
func (s *entitySet) unset(i uint16) {
	s[i>>6] &^= uint64(1) << (i & 63)
}

// has reports whether the bit for index i is set.
func (s *entitySet) has(i uint16) bool {
	return s[i>>6]&(uint64(1)<<(i&63)) != 0
}

// and keeps only the bits also set in o.
func (s *entitySet) and(o *entitySet) {
	for w := range s {
		s[w] &= o[w]
	}
}

// andNot clears every bit set in o.
func (s *entitySet) andNot(o *entitySet) {
	for w := range s {
		s[w] &^= o[w]
	}
}

// count returns the number of set bits.
func (s *entitySet) count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// next returns the lowest set index that is >= from.
//
// Parameters:
//   - from: The first index to consider. Values at or above MaxEntities end
//     the scan.
//
// Returns:
//   - The index and true, or 0 and false when no bit at or above from is set.
func (s *entitySet) next(from int) (uint16, bool) {
	if from >= MaxEntities {
		return 0, false
	}
	w := from >> 6
	word := s[w] &^ (uint64(1)<<(uint(from)&63) - 1)
	for {
		if word != 0 {
			return uint16(w<<6 + bits.TrailingZeros64(word)), true
		}
		w++
		if w >= setWords {
			return 0, false
		}
		word = s[w]
	}
}
