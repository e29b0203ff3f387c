package repository

import (
	"context"
	"errors"

	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
)

var (
	ErrGiveawayNotFound = errors.New("giveaway not found")
	ErrGiveawayExists   = errors.New("giveaway already exists")
	// ErrTransitionTaken is returned when another caller already owns the
	// Active to Ended transition of a giveaway.
	ErrTransitionTaken = errors.New("giveaway transition already taken")
)

// Gateway is the durable storage of giveaway records.
type Gateway interface {
	// LoadAll returns every stored record keyed by id.
	LoadAll(ctx context.Context) (map[string]*models.Giveaway, error)
	// Save upserts a record.
	Save(ctx context.Context, g *models.Giveaway) error
	// Delete removes a record; deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
}
