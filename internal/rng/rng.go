// Package rng defines the randomness source used by question generation,
// difficulty selection and feedback. Every consumer takes a Source so tests
// can pin behavior with a seed or a scripted sequence.
package rng

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// Seeded is a Source backed by a PCG generator. It is safe for concurrent use.
type Seeded struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Source seeded with seed. Equal seeds produce equal sequences.
func New(seed uint64) *Seeded {
	return &Seeded{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeeded returns a Source seeded from the wall clock.
func NewTimeSeeded() *Seeded {
	return New(uint64(time.Now().UnixNano()))
}

func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// Sequence replays a fixed list of values, wrapping around when exhausted.
// Values outside [0, 1) are clamped.
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence returns a Source that yields values in order.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	switch {
	case v < 0:
		return 0
	case v >= 1:
		return 0.9999999999
	}
	return v
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a uniformly chosen element of items. It panics on an empty slice.
func Pick[T any](src Source, items []T) T {
	return items[Intn(src, len(items))]
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := Intn(src, i+1)
		items[i], items[j] = items[j], items[i]
	}
}
