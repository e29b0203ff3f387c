// Package memory is a process-local Gateway for tests, with injectable save
// failures.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
)

// ErrUnavailable is returned while the gateway is set to fail.
var ErrUnavailable = errors.New("memory gateway unavailable")

type Gateway struct {
	mu       sync.Mutex
	records  map[string]*models.Giveaway
	failures int
	saves    int
}

func NewGateway() *Gateway {
	return &Gateway{records: make(map[string]*models.Giveaway)}
}

// FailNext makes the next n calls to Save or Delete fail.
func (m *Gateway) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

// Saves returns the number of successful saves.
func (m *Gateway) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Stored returns a copy of the stored record.
func (m *Gateway) Stored(id string) (*models.Giveaway, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.records[id]
	return g.Clone(), ok
}

func (m *Gateway) LoadAll(_ context.Context) (map[string]*models.Giveaway, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*models.Giveaway, len(m.records))
	for id, g := range m.records {
		out[id] = g.Clone()
	}
	return out, nil
}

func (m *Gateway) Save(_ context.Context, g *models.Giveaway) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return ErrUnavailable
	}
	m.records[g.ID] = g.Clone()
	m.saves++
	return nil
}

func (m *Gateway) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return ErrUnavailable
	}
	delete(m.records, id)
	return nil
}
