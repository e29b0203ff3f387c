package models

import (
	"strings"
	"time"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
)

// GiveawayConfig is the operator-supplied configuration of a giveaway.
type GiveawayConfig struct {
	Name        string
	Prize       string
	HostID      ParticipantID
	Duration    time.Duration
	WinnerCount int
	Gating      GatingRules
	Appearance  Appearance
}

// Draft is a validated, not yet published giveaway. It holds its own copy of
// the configuration, so later changes to the caller's config do not leak in.
type Draft struct {
	cfg GiveawayConfig
}

// NewDraft validates cfg and returns a draft. Non-positive duration or winner
// count is a configuration error; no draft is produced.
func NewDraft(cfg GiveawayConfig) (Draft, error) {
	cfg.Gating = cfg.Gating.Normalize()
	if err := validateConfig(cfg); err != nil {
		return Draft{}, err
	}
	return Draft{cfg: cfg}, nil
}

// Config returns a copy of the draft configuration.
func (d Draft) Config() GiveawayConfig {
	cfg := d.cfg
	cfg.Gating = d.cfg.Gating.Clone()
	return cfg
}

// Commit checks that the draft is complete and builds the active record with
// endAt fixed relative to now.
func (d Draft) Commit(id string, now time.Time) (*Giveaway, error) {
	cfg := d.Config()
	switch {
	case strings.TrimSpace(cfg.Name) == "":
		return nil, apperrors.NewConfigurationError("name", "must not be empty")
	case strings.TrimSpace(cfg.Prize) == "":
		return nil, apperrors.NewConfigurationError("prize", "must not be empty")
	case cfg.HostID == 0:
		return nil, apperrors.NewConfigurationError("host_id", "must be set")
	case id == "":
		return nil, apperrors.NewConfigurationError("id", "must not be empty")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &Giveaway{
		ID:          id,
		Name:        strings.TrimSpace(cfg.Name),
		Prize:       strings.TrimSpace(cfg.Prize),
		HostID:      cfg.HostID,
		CreatedAt:   now.Unix(),
		EndAt:       now.Add(cfg.Duration).Unix(),
		Status:      GiveawayStatusActive,
		WinnerCount: cfg.WinnerCount,
		Gating:      cfg.Gating,
		Entries:     make(Entries),
		Appearance:  cfg.Appearance,
	}, nil
}

func validateConfig(cfg GiveawayConfig) error {
	if cfg.Duration <= 0 {
		return apperrors.NewConfigurationError("duration", "must be positive")
	}
	if cfg.WinnerCount <= 0 {
		return apperrors.NewConfigurationError("winner_count", "must be positive")
	}
	return cfg.Gating.Validate()
}
