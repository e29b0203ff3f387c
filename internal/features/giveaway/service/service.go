package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
	"github.com/open-builders/giveaway-engine/internal/common/logger"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/draw"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/eligibility"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/repository"
	"github.com/open-builders/giveaway-engine/internal/utils/random"
)

const (
	joinAccepted = "accepted"
	joinEnded    = "ended"
)

// Options tune a Service. Zero values select production defaults.
type Options struct {
	Now     func() time.Time
	Random  random.Source
	Metrics *Metrics
	NewID   func() string
}

// Service is the giveaway command surface. It owns no state of its own:
// records live in the Store, one lock per record.
type Service struct {
	store     *repository.Store
	notifier  Notifier
	directory MemberDirectory
	metrics   *Metrics
	now       func() time.Time
	rnd       random.Source
	newID     func() string
}

func New(store *repository.Store, notifier Notifier, directory MemberDirectory, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Random == nil {
		opts.Random = random.Default()
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return &Service{
		store:     store,
		notifier:  notifier,
		directory: directory,
		metrics:   opts.Metrics,
		now:       opts.Now,
		rnd:       random.Locked(opts.Random),
		newID:     opts.NewID,
	}
}

// NewDraft validates cfg into a draft. Nothing is stored until Commit.
func (s *Service) NewDraft(cfg models.GiveawayConfig) (models.Draft, error) {
	return models.NewDraft(cfg)
}

// Commit publishes the draft as an Active giveaway and announces it. A failed
// announcement does not undo the commit.
func (s *Service) Commit(ctx context.Context, d models.Draft) (*models.Giveaway, error) {
	g, err := d.Commit(s.newID(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, g); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to register giveaway")
	}
	logger.Info().Str("giveaway_id", g.ID).Int64("end_at", g.EndAt).Int("winner_count", g.WinnerCount).
		Msg("Giveaway activated")

	if s.notifier == nil {
		return g, nil
	}
	ann, err := s.notifier.AnnounceCreated(ctx, g)
	if err != nil {
		logger.Warn().Err(err).Str("giveaway_id", g.ID).Msg("Failed to announce giveaway")
		return g, nil
	}
	if ann.MessageID == 0 {
		return g, nil
	}
	updated, err := s.store.Update(ctx, g.ID, func(rec *models.Giveaway) (bool, error) {
		rec.AnnounceChatID = ann.ChatID
		rec.AnnounceMessageID = ann.MessageID
		return true, nil
	})
	if err != nil {
		return g, nil
	}
	return updated, nil
}

// CreateGiveaway validates cfg and commits it in one step.
func (s *Service) CreateGiveaway(ctx context.Context, cfg models.GiveawayConfig) (string, error) {
	d, err := s.NewDraft(cfg)
	if err != nil {
		return "", err
	}
	g, err := s.Commit(ctx, d)
	if err != nil {
		return "", err
	}
	return g.ID, nil
}

// Join evaluates p against the giveaway gates and records the entry. A
// rejected participant gets the rejection result together with an
// ELIGIBILITY_REJECTED error. Re-joining never lowers a recorded weight.
func (s *Service) Join(ctx context.Context, id string, p models.ParticipantID) (eligibility.Result, error) {
	g, err := s.store.Get(id)
	if err != nil {
		return eligibility.Result{}, mapStoreError(err, id)
	}
	if err := checkJoinable(g); err != nil {
		s.metrics.observeJoin(joinEnded)
		return eligibility.Result{}, err
	}

	snap, err := s.snapshot(ctx, p)
	if err != nil {
		return eligibility.Result{}, err
	}
	// gating rules are immutable after commit, so evaluating outside the
	// record lock sees the same rules as the write below
	result := eligibility.Evaluate(g.Gating, snap)
	if !result.Eligible {
		s.metrics.observeJoin(string(result.Reason))
		logger.Debug().Str("giveaway_id", id).Int64("participant", int64(p)).
			Str("reason", string(result.Reason)).Msg("Join rejected")
		return result, errRejected(id, result.Reason)
	}

	updated, err := s.store.Update(ctx, id, func(rec *models.Giveaway) (bool, error) {
		if err := checkJoinable(rec); err != nil {
			return false, err
		}
		return rec.Entries.Register(p, result.Entry), nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeAlreadyEnded) {
			s.metrics.observeJoin(joinEnded)
		}
		return eligibility.Result{}, mapStoreError(err, id)
	}

	s.metrics.observeJoin(joinAccepted)
	result.Entry = updated.Entries[p]
	logger.Debug().Str("giveaway_id", id).Int64("participant", int64(p)).
		Int("weight", result.Entry.Weight).Msg("Participant joined")
	return result, nil
}

func checkJoinable(g *models.Giveaway) error {
	switch g.Status {
	case models.GiveawayStatusActive:
		return nil
	case models.GiveawayStatusEnded:
		return apperrors.NewAlreadyEndedError(g.ID)
	default:
		return errNotActive(g.ID)
	}
}

func (s *Service) snapshot(ctx context.Context, p models.ParticipantID) (eligibility.Snapshot, error) {
	snap := eligibility.Snapshot{Participant: p}
	if s.directory == nil {
		return snap, nil
	}
	roles, err := s.directory.QueryRoles(ctx, p)
	if err != nil {
		return snap, apperrors.Wrap(err, apperrors.ErrCodeExternalAPI, "Failed to query member roles")
	}
	level, err := s.directory.QueryLevel(ctx, p)
	if err != nil {
		return snap, apperrors.Wrap(err, apperrors.ErrCodeExternalAPI, "Failed to query member level")
	}
	snap.Roles = roles
	snap.Level = level
	return snap, nil
}

// ViewInfo returns the summary of one giveaway.
func (s *Service) ViewInfo(id string) (models.Summary, error) {
	g, err := s.store.Get(id)
	if err != nil {
		return models.Summary{}, mapStoreError(err, id)
	}
	return g.Summarize(), nil
}

// Claim records p's acknowledgment of a prize. Claiming twice succeeds and
// changes nothing.
func (s *Service) Claim(ctx context.Context, id string, p models.ParticipantID) (bool, error) {
	first := false
	_, err := s.store.Update(ctx, id, func(g *models.Giveaway) (bool, error) {
		if g.Status != models.GiveawayStatusEnded {
			return false, errNotEnded(id)
		}
		if !g.IsWinner(p) {
			return false, errNotWinner(id)
		}
		first = g.AddClaim(p)
		return first, nil
	})
	if err != nil {
		return false, mapStoreError(err, id)
	}
	if first {
		s.metrics.observeClaim()
		logger.Info().Str("giveaway_id", id).Int64("participant", int64(p)).Msg("Prize claimed")
	}
	return true, nil
}

// ClaimAll claims every prize p won and has not claimed yet, returning the
// giveaway ids claimed.
func (s *Service) ClaimAll(ctx context.Context, p models.ParticipantID) ([]string, error) {
	pending := s.store.List(func(g *models.Giveaway) bool {
		return g.Status == models.GiveawayStatusEnded && g.IsWinner(p) && !g.HasClaimed(p)
	})

	claimed := make([]string, 0, len(pending))
	for _, g := range pending {
		if _, err := s.Claim(ctx, g.ID, p); err != nil {
			// removed by retention between List and Claim
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return claimed, err
		}
		claimed = append(claimed, g.ID)
	}
	return claimed, nil
}

// ListUnclaimed returns ended giveaways with at least one unclaimed winner.
func (s *Service) ListUnclaimed() []models.Summary {
	ended := s.store.List(func(g *models.Giveaway) bool {
		return g.Status == models.GiveawayStatusEnded && len(g.Unclaimed()) > 0
	})
	out := make([]models.Summary, len(ended))
	for i, g := range ended {
		out[i] = g.Summarize()
	}
	return out
}

// End performs the Active to Ended transition exactly once: the draw runs
// and the winners are committed together with the status flip, the record is
// saved, and the result is announced. Concurrent or repeated calls return
// ALREADY_ENDED without side effects.
func (s *Service) End(ctx context.Context, id string) (*models.Giveaway, error) {
	g, err := s.store.Finalize(ctx, id, func(g *models.Giveaway) error {
		if g.Status != models.GiveawayStatusActive {
			return errNotActive(id)
		}
		g.Winners = draw.Draw(g.Entries, g.WinnerCount, s.rnd)
		g.Status = models.GiveawayStatusEnded
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, id)
	}

	s.metrics.observeDraw(len(g.Winners))
	log := logger.Giveaway(id)
	log.Info().Int("participants", g.Entries.Size()).
		Int("total_entries", g.Entries.TotalWeight()).Int("winners", len(g.Winners)).
		Msg("Giveaway ended")

	if s.notifier != nil {
		if err := s.notifier.AnnounceEnded(ctx, g, g.Winners); err != nil {
			log.Warn().Err(err).Msg("Failed to announce giveaway result")
		}
	}
	return g, nil
}

// Stats counts giveaways by status.
type Stats struct {
	Active        int `json:"active"`
	Ended         int `json:"ended"`
	PendingClaims int `json:"pending_claims"`
	DirtyRecords  int `json:"dirty_records"`
}

func (s *Service) Stats() Stats {
	var st Stats
	s.store.List(func(g *models.Giveaway) bool {
		switch g.Status {
		case models.GiveawayStatusActive:
			st.Active++
		case models.GiveawayStatusEnded:
			st.Ended++
			st.PendingClaims += len(g.Unclaimed())
		}
		return false
	})
	st.DirtyRecords = s.store.DirtyCount()
	return st
}

// PurgeEnded removes ended giveaways whose end time is before cutoff and
// returns how many were removed.
func (s *Service) PurgeEnded(ctx context.Context, cutoff time.Time) (int, error) {
	old := s.store.List(func(g *models.Giveaway) bool {
		return g.Status == models.GiveawayStatusEnded && g.EndAt < cutoff.Unix()
	})
	removed := 0
	for _, g := range old {
		if err := s.store.Remove(ctx, g.ID); err != nil {
			if errors.Is(err, repository.ErrGiveawayNotFound) {
				continue
			}
			return removed, err
		}
		removed++
		logger.Info().Str("giveaway_id", g.ID).Msg("Ended giveaway purged")
	}
	return removed, nil
}

func mapStoreError(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrGiveawayNotFound):
		return apperrors.NewGiveawayNotFoundError(id)
	case errors.Is(err, repository.ErrTransitionTaken):
		return apperrors.NewAlreadyEndedError(id)
	default:
		return err
	}
}
