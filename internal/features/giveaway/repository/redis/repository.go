package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/open-builders/giveaway-engine/internal/common/logger"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/repository"
)

const (
	keyPrefixGiveaway  = "giveaway:"
	keyAllGiveaways    = "giveaways:all"
	keyActiveGiveaways = "giveaways:active"
	keyEndedGiveaways  = "giveaways:ended"

	loadBatchSize = 200
)

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisGiveawayRepository returns a Gateway storing each record as JSON
// under giveaway:<id>, indexed by the giveaways:* sets.
func NewRedisGiveawayRepository(client redis.UniversalClient) repository.Gateway {
	return &redisRepository{client: client}
}

func makeGiveawayKey(id string) string {
	return keyPrefixGiveaway + id
}

func statusSetKey(status models.GiveawayStatus) string {
	switch status {
	case models.GiveawayStatusEnded:
		return keyEndedGiveaways
	default:
		return keyActiveGiveaways
	}
}

func (r *redisRepository) Save(ctx context.Context, g *models.Giveaway) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	set := statusSetKey(g.Status)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, makeGiveawayKey(g.ID), data, 0)
		pipe.SAdd(ctx, keyAllGiveaways, g.ID)
		pipe.SRem(ctx, keyActiveGiveaways, g.ID)
		pipe.SRem(ctx, keyEndedGiveaways, g.ID)
		pipe.SAdd(ctx, set, g.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save giveaway %s: %w", g.ID, err)
	}
	return nil
}

func (r *redisRepository) LoadAll(ctx context.Context) (map[string]*models.Giveaway, error) {
	ids, err := r.client.SMembers(ctx, keyAllGiveaways).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list giveaways: %w", err)
	}

	out := make(map[string]*models.Giveaway, len(ids))
	var stale []string
	for start := 0; start < len(ids); start += loadBatchSize {
		end := min(start+loadBatchSize, len(ids))
		batch := ids[start:end]

		keys := make([]string, len(batch))
		for i, id := range batch {
			keys[i] = makeGiveawayKey(id)
		}
		values, err := r.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load giveaways: %w", err)
		}

		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				stale = append(stale, batch[i])
				continue
			}
			var g models.Giveaway
			if err := json.Unmarshal([]byte(raw), &g); err != nil {
				return nil, fmt.Errorf("failed to decode giveaway %s: %w", batch[i], err)
			}
			out[g.ID] = &g
		}
	}

	if len(stale) > 0 {
		r.cleanupIndex(ctx, stale)
	}
	return out, nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, makeGiveawayKey(id))
		pipe.SRem(ctx, keyAllGiveaways, id)
		pipe.SRem(ctx, keyActiveGiveaways, id)
		pipe.SRem(ctx, keyEndedGiveaways, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete giveaway %s: %w", id, err)
	}
	return nil
}

// cleanupIndex drops index entries whose record key is gone.
func (r *redisRepository) cleanupIndex(ctx context.Context, ids []string) {
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	pipe := r.client.Pipeline()
	pipe.SRem(ctx, keyAllGiveaways, members...)
	pipe.SRem(ctx, keyActiveGiveaways, members...)
	pipe.SRem(ctx, keyEndedGiveaways, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn().Err(err).Int("count", len(ids)).Msg("Failed to clean up stale giveaway index entries")
		return
	}
	logger.Info().Int("count", len(ids)).Msg("Removed stale giveaway index entries")
}
