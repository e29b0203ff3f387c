package random

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(1, 2), NewSeeded(1, 2)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestLockedConcurrentUse(t *testing.T) {
	src := Locked(NewSeeded(3, 4))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				n := src.IntN(10)
				assert.True(t, n >= 0 && n < 10)
			}
		}()
	}
	wg.Wait()
}

func TestDefaultInRange(t *testing.T) {
	src := Default()
	for i := 0; i < 100; i++ {
		n := src.IntN(3)
		assert.True(t, n >= 0 && n < 3)
	}
}
