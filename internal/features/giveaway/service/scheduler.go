package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/open-builders/giveaway-engine/internal/common/logger"
)

// Scheduler ends expired giveaways on a fixed tick. One Scheduler per
// process; distinct giveaways are ended concurrently up to maxConcurrent.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	svc    *Service

	interval   time.Duration
	processing sync.Map
	wg         sync.WaitGroup
	// bounds concurrently ended giveaways
	processSemaphore chan struct{}
}

func NewScheduler(svc *Service, interval time.Duration, maxConcurrent int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Scheduler{
		ctx:              ctx,
		cancel:           cancel,
		svc:              svc,
		interval:         interval,
		processSemaphore: make(chan struct{}, maxConcurrent),
	}
}

// Start runs a catch-up tick right away, then one tick per interval.
func (s *Scheduler) Start() {
	logger.Info().Dur("interval", s.interval).Msg("Starting giveaway scheduler")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Tick(s.ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick(s.ctx)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the loop and waits for in-flight ends.
func (s *Scheduler) Stop() {
	logger.Info().Msg("Stopping giveaway scheduler")
	s.cancel()
	s.wg.Wait()
	logger.Info().Msg("Giveaway scheduler stopped")
}

// Tick ends every giveaway due now, retries dirty saves, and returns the
// number of giveaways ended by this tick.
func (s *Scheduler) Tick(ctx context.Context) int {
	start := time.Now()
	defer func() {
		s.svc.metrics.observeTick(time.Since(start).Seconds())
	}()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ended int
	)
	for _, id := range s.svc.store.ExpiredIDs(s.svc.now().Unix()) {
		// an overlapping tick may still be ending this giveaway
		if _, busy := s.processing.LoadOrStore(id, struct{}{}); busy {
			continue
		}

		select {
		case s.processSemaphore <- struct{}{}:
		case <-ctx.Done():
			s.processing.Delete(id)
			wg.Wait()
			return ended
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			defer func() { <-s.processSemaphore }()
			defer s.processing.Delete(id)

			if _, err := s.svc.End(ctx, id); err != nil {
				if errors.Is(err, ErrAlreadyEnded) {
					return
				}
				logger.Error().Err(err).Str("giveaway_id", id).Msg("Failed to end giveaway")
				return
			}
			mu.Lock()
			ended++
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	if pending := s.svc.store.FlushDirty(ctx); pending > 0 {
		logger.Warn().Int("pending", pending).Msg("Giveaways still not persisted")
	}
	if ended > 0 {
		logger.Info().Int("ended", ended).Dur("took", time.Since(start)).Msg("Scheduler tick finished")
	}
	return ended
}
