package tetris

import "math/rand"

// Sequence supplies catalog indices by position. Entries are fixed once
// produced: At(i) returns the same value for the lifetime of the sequence,
// which lets the grid peek ahead for previews without consuming anything.
type Sequence interface {
	At(i int) int
}

// FixedSequence is an explicit list of shape indices that repeats once the
// end is reached.
type FixedSequence []int

// At returns the entry at position i, wrapping around the list.
func (s FixedSequence) At(i int) int {
	if len(s) == 0 {
		return 0
	}
	return s[i%len(s)]
}

// RandomSequence draws every entry uniformly from the catalog. Entries are
// generated lazily and memoised, so the stream is reproducible per seed.
type RandomSequence struct {
	rng     *rand.Rand
	entries []int
}

// NewRandomSequence creates a uniform sequence seeded with seed.
func NewRandomSequence(seed int64) *RandomSequence {
	return &RandomSequence{rng: rand.New(rand.NewSource(seed))}
}

// At returns the entry at position i, generating up to it if needed.
func (s *RandomSequence) At(i int) int {
	for len(s.entries) <= i {
		s.entries = append(s.entries, s.rng.Intn(ShapeCount()))
	}
	return s.entries[i]
}

// BagSequence deals shapes from shuffled bags holding one of each catalog
// entry, so every aligned window of ShapeCount entries is a permutation.
type BagSequence struct {
	rng     *rand.Rand
	entries []int
}

// NewBagSequence creates a bag sequence seeded with seed.
func NewBagSequence(seed int64) *BagSequence {
	return &BagSequence{rng: rand.New(rand.NewSource(seed))}
}

// At returns the entry at position i, dealing new bags as needed.
func (s *BagSequence) At(i int) int {
	for len(s.entries) <= i {
		bag := s.rng.Perm(ShapeCount())
		s.entries = append(s.entries, bag...)
	}
	return s.entries[i]
}
