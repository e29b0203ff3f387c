package repository

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
	"github.com/open-builders/giveaway-engine/internal/common/logger"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
)

// RetryPolicy bounds gateway save retries.
type RetryPolicy struct {
	MaxTries       uint
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy is used when a zero policy is passed to NewStore.
var DefaultRetryPolicy = RetryPolicy{
	MaxTries:       5,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     5 * time.Second,
}

// StoreOptions tune a Store.
type StoreOptions struct {
	Retry RetryPolicy
	// OnPersistFailure is called once per save whose retries were exhausted.
	OnPersistFailure func(id string, err error)
}

type record struct {
	mu    sync.Mutex
	g     *models.Giveaway
	dirty bool
	// finalizing flips once, by the single caller allowed to end the record.
	finalizing atomic.Bool
}

// Store is the in-memory authoritative table of giveaways. Mutations of one
// record are serialized by that record's lock; distinct records never share
// a lock. Every mutation is written through to the Gateway; a failed save
// leaves the in-memory state in place and marks the record dirty.
type Store struct {
	gateway Gateway
	opts    StoreOptions

	mu      sync.RWMutex
	records map[string]*record
}

func NewStore(gateway Gateway, opts StoreOptions) *Store {
	if opts.Retry.MaxTries == 0 {
		opts.Retry = DefaultRetryPolicy
	}
	return &Store{
		gateway: gateway,
		opts:    opts,
		records: make(map[string]*record),
	}
}

// Load replaces the table with the gateway contents and returns the number
// of records loaded.
func (s *Store) Load(ctx context.Context) (int, error) {
	all, err := s.gateway.LoadAll(ctx)
	if err != nil {
		return 0, apperrors.NewPersistenceError("load_all", err)
	}

	records := make(map[string]*record, len(all))
	for id, g := range all {
		if g == nil {
			continue
		}
		if g.Entries == nil {
			g.Entries = make(models.Entries)
		}
		rec := &record{g: g}
		if g.Status == models.GiveawayStatusEnded {
			rec.finalizing.Store(true)
		}
		records[id] = rec
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return len(records), nil
}

// Insert adds a new record and saves it.
func (s *Store) Insert(ctx context.Context, g *models.Giveaway) error {
	rec := &record{g: g.Clone()}

	s.mu.Lock()
	if _, ok := s.records[g.ID]; ok {
		s.mu.Unlock()
		return ErrGiveawayExists
	}
	s.records[g.ID] = rec
	s.mu.Unlock()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	s.persistLocked(ctx, rec)
	return nil
}

// Get returns a snapshot of the record.
func (s *Store) Get(id string) (*models.Giveaway, error) {
	rec, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.g.Clone(), nil
}

// Update runs fn under the record lock. fn reports whether it changed the
// record; changed records are saved before the lock is released. The
// returned snapshot reflects the record after fn.
func (s *Store) Update(ctx context.Context, id string, fn func(g *models.Giveaway) (bool, error)) (*models.Giveaway, error) {
	rec, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	// fn works on a copy so a failing fn leaves no partial change behind
	work := rec.g.Clone()
	changed, err := fn(work)
	if err != nil {
		return rec.g.Clone(), err
	}
	if changed {
		rec.g = work
		s.persistLocked(ctx, rec)
	}
	return rec.g.Clone(), nil
}

// Finalize performs the one-time terminal transition of a record. The first
// caller wins an atomic guard and runs fn under the record lock; every other
// caller gets ErrTransitionTaken without side effects. fn must fully compute
// the new state before returning; an error from fn releases the guard and
// leaves the record unchanged.
func (s *Store) Finalize(ctx context.Context, id string, fn func(g *models.Giveaway) error) (*models.Giveaway, error) {
	rec, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if !rec.finalizing.CompareAndSwap(false, true) {
		return nil, ErrTransitionTaken
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	work := rec.g.Clone()
	if err := fn(work); err != nil {
		rec.finalizing.Store(false)
		return nil, err
	}
	rec.g = work
	s.persistLocked(ctx, rec)
	return rec.g.Clone(), nil
}

// List returns snapshots of records matching keep, ordered by end time.
func (s *Store) List(keep func(g *models.Giveaway) bool) []*models.Giveaway {
	out := make([]*models.Giveaway, 0)
	for _, rec := range s.all() {
		rec.mu.Lock()
		if keep == nil || keep(rec.g) {
			out = append(out, rec.g.Clone())
		}
		rec.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EndAt != out[j].EndAt {
			return out[i].EndAt < out[j].EndAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ExpiredIDs returns ids of active records due at unix time now.
func (s *Store) ExpiredIDs(now int64) []string {
	expired := s.List(func(g *models.Giveaway) bool { return g.IsExpired(now) })
	ids := make([]string, 0, len(expired))
	for _, g := range expired {
		ids = append(ids, g.ID)
	}
	return ids
}

// Remove deletes a record from the table and the gateway.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.records[id]
	delete(s.records, id)
	s.mu.Unlock()
	if !ok {
		return ErrGiveawayNotFound
	}
	if err := s.gateway.Delete(ctx, id); err != nil {
		return apperrors.NewPersistenceError("delete", err)
	}
	return nil
}

// FlushDirty retries saving records whose last save failed and returns how
// many are still dirty.
func (s *Store) FlushDirty(ctx context.Context) int {
	pending := 0
	for _, rec := range s.all() {
		rec.mu.Lock()
		if rec.dirty {
			s.persistLocked(ctx, rec)
			if rec.dirty {
				pending++
			}
		}
		rec.mu.Unlock()
	}
	return pending
}

// DirtyCount returns the number of records not yet durably saved.
func (s *Store) DirtyCount() int {
	n := 0
	for _, rec := range s.all() {
		rec.mu.Lock()
		if rec.dirty {
			n++
		}
		rec.mu.Unlock()
	}
	return n
}

func (s *Store) lookup(id string) (*record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrGiveawayNotFound
	}
	return rec, nil
}

func (s *Store) all() []*record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

// persistLocked saves rec.g with retries. rec.mu must be held.
func (s *Store) persistLocked(ctx context.Context, rec *record) {
	snapshot := rec.g.Clone()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.Retry.InitialBackoff
	b.MaxInterval = s.opts.Retry.MaxBackoff

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.gateway.Save(ctx, snapshot)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.opts.Retry.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn().Err(err).
				Str("giveaway_id", snapshot.ID).
				Dur("retry_in", next).
				Msg("Giveaway save failed, retrying")
		}),
	)
	if err == nil {
		rec.dirty = false
		return
	}

	rec.dirty = true
	appErr := apperrors.NewPersistenceError("save", err).WithDetail("giveaway_id", snapshot.ID)
	logger.Error().Err(appErr).
		Str("giveaway_id", snapshot.ID).
		Uint("attempts", s.opts.Retry.MaxTries).
		Msg("Giveaway save exhausted retries; serving from memory")
	if s.opts.OnPersistFailure != nil {
		s.opts.OnPersistFailure(snapshot.ID, appErr)
	}
}
