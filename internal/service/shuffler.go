package service

import (
	"math/rand/v2"
	"sync"
)

// Shuffler is a seedable source of unbiased permutations.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler creates a Shuffler. A zero seed picks a random one.
func NewShuffler(seed uint64) *Shuffler {
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &Shuffler{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Shuffle permutes n elements with the Fisher-Yates algorithm.
func (s *Shuffler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(n, swap)
}
