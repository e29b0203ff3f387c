package workers

import (
	"context"
	"sync"
	"time"

	"github.com/open-builders/giveaway-engine/internal/common/logger"
)

// Purger removes ended giveaways that finished before cutoff.
type Purger interface {
	PurgeEnded(ctx context.Context, cutoff time.Time) (int, error)
}

// RetentionSweeper periodically purges ended giveaways older than period.
type RetentionSweeper struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	purger   Purger
	period   time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewRetentionSweeper(purger Purger, period, interval time.Duration) *RetentionSweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &RetentionSweeper{
		ctx:      ctx,
		cancel:   cancel,
		purger:   purger,
		period:   period,
		interval: interval,
		now:      time.Now,
	}
}

func (s *RetentionSweeper) Start() {
	if s.period <= 0 || s.interval <= 0 {
		logger.Info().Msg("Giveaway retention disabled")
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Sweep(s.ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(s.ctx)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *RetentionSweeper) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Sweep runs one purge pass and returns the number of removed giveaways.
func (s *RetentionSweeper) Sweep(ctx context.Context) int {
	cutoff := s.now().Add(-s.period)
	removed, err := s.purger.PurgeEnded(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Int("removed", removed).Msg("Giveaway retention sweep failed")
		return removed
	}
	if removed > 0 {
		logger.Info().Int("removed", removed).Time("cutoff", cutoff).Msg("Old giveaways purged")
	}
	return removed
}
