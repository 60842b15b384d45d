package analysis

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields values in [0, 1). Implementations must be safe for
// concurrent use because the API serves requests in parallel.
type RandomSource interface {
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a seeded generator. Seed 0 picks a random seed.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// SequenceSource replays a fixed list of values, wrapping around at the end.
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: append([]float64(nil), values...)}
}

func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Drawn reports how many values have been consumed.
func (s *SequenceSource) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
