package service

import (
	"context"

	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/notify"
)

// Notifier publishes giveaway announcements.
type Notifier interface {
	// AnnounceCreated posts the giveaway with a join affordance.
	AnnounceCreated(ctx context.Context, g *models.Giveaway) (notify.Announcement, error)
	// AnnounceEnded posts the winners; an empty list means no participants.
	AnnounceEnded(ctx context.Context, g *models.Giveaway, winners []models.ParticipantID) error
}

// MemberDirectory answers role and level queries about participants.
type MemberDirectory interface {
	QueryRoles(ctx context.Context, p models.ParticipantID) ([]models.RoleRef, error)
	QueryLevel(ctx context.Context, p models.ParticipantID) (int, error)
}
