package service

import (
	"fmt"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/eligibility"
)

// Sentinels for errors.Is; returned errors carry the same code plus details.
var (
	ErrNotFound            = apperrors.New(apperrors.ErrCodeGiveawayNotFound, "giveaway not found")
	ErrAlreadyEnded        = apperrors.New(apperrors.ErrCodeAlreadyEnded, "giveaway has already ended")
	ErrNotActive           = apperrors.New(apperrors.ErrCodeNotActive, "giveaway is not active")
	ErrNotEnded            = apperrors.New(apperrors.ErrCodeNotEnded, "giveaway has not ended")
	ErrNotWinner           = apperrors.New(apperrors.ErrCodeNotWinner, "participant is not a winner")
	ErrEligibilityRejected = apperrors.New(apperrors.ErrCodeEligibilityRejected, "participant is not eligible")
)

func errNotActive(id string) error {
	return apperrors.New(apperrors.ErrCodeNotActive, fmt.Sprintf("Giveaway is not open for entries: %s", id)).
		WithDetail("giveaway_id", id)
}

func errNotEnded(id string) error {
	return apperrors.New(apperrors.ErrCodeNotEnded, fmt.Sprintf("Giveaway has not ended yet: %s", id)).
		WithDetail("giveaway_id", id)
}

func errNotWinner(id string) error {
	return apperrors.New(apperrors.ErrCodeNotWinner, fmt.Sprintf("Not a winner of giveaway %s", id)).
		WithDetail("giveaway_id", id)
}

func errRejected(id string, reason eligibility.Reason) error {
	return apperrors.New(apperrors.ErrCodeEligibilityRejected, fmt.Sprintf("Not eligible to join giveaway %s", id)).
		WithDetail("giveaway_id", id).
		WithDetail("reason", string(reason))
}
