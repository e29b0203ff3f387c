package random

import (
	"math/rand/v2"
	"sync"
)

// Source is the subset of *rand.Rand used by the draw. Implementations need
// not be safe for concurrent use unless shared between goroutines.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default returns a source backed by the runtime-seeded global generator.
func Default() Source {
	return globalSource{}
}

// NewSeeded returns a reproducible source, intended for tests.
func NewSeeded(seed1, seed2 uint64) Source {
	return rand.New(rand.NewPCG(seed1, seed2))
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// Locked serializes calls to src so it can be shared between goroutines.
func Locked(src Source) Source {
	return &lockedSource{src: src}
}
