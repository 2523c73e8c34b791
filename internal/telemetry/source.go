// internal/telemetry/source.go
package telemetry

import (
	"math/rand/v2"
	"sync"
)

// Source is the randomness the generators draw from.
type Source interface {
	// IntN returns a uniform int in [0, n).
	IntN(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

type globalSource struct{}

func (globalSource) IntN(n int) int   { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// Default draws from the process-wide math/rand/v2 generator.
// It is safe for concurrent use and needs no locking here.
var Default Source = globalSource{}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a reproducible Source.
// Calls are serialized, so one seeded source may be shared between goroutines.
func NewSeeded(seed uint64) Source {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}
