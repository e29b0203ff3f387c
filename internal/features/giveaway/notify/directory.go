package notify

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
)

const (
	keyMemberPrefix = "member:"
	rolesSuffix     = ":roles"
	levelSuffix     = ":level"
)

func makeRolesKey(p models.ParticipantID) string {
	return keyMemberPrefix + strconv.FormatInt(int64(p), 10) + rolesSuffix
}

func makeLevelKey(p models.ParticipantID) string {
	return keyMemberPrefix + strconv.FormatInt(int64(p), 10) + levelSuffix
}

// RedisDirectory answers role and level queries from data published by the
// leveling and role-sync collaborators.
type RedisDirectory struct {
	client redis.UniversalClient
}

func NewRedisDirectory(client redis.UniversalClient) *RedisDirectory {
	return &RedisDirectory{client: client}
}

// QueryRoles returns the roles p holds, sorted. Unknown members hold none.
func (d *RedisDirectory) QueryRoles(ctx context.Context, p models.ParticipantID) ([]models.RoleRef, error) {
	members, err := d.client.SMembers(ctx, makeRolesKey(p)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query roles of %d: %w", p, err)
	}
	slices.Sort(members)
	roles := make([]models.RoleRef, len(members))
	for i, m := range members {
		roles[i] = models.RoleRef(m)
	}
	return roles, nil
}

// QueryLevel returns p's level. Unknown members are level 0.
func (d *RedisDirectory) QueryLevel(ctx context.Context, p models.ParticipantID) (int, error) {
	level, err := d.client.Get(ctx, makeLevelKey(p)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query level of %d: %w", p, err)
	}
	return max(level, 0), nil
}

// SetRoles replaces the roles p holds.
func (d *RedisDirectory) SetRoles(ctx context.Context, p models.ParticipantID, roles []models.RoleRef) error {
	key := makeRolesKey(p)
	_, err := d.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(roles) > 0 {
			members := make([]interface{}, len(roles))
			for i, r := range roles {
				members[i] = string(r)
			}
			pipe.SAdd(ctx, key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set roles of %d: %w", p, err)
	}
	return nil
}

// SetLevel stores p's level.
func (d *RedisDirectory) SetLevel(ctx context.Context, p models.ParticipantID, level int) error {
	if level < 0 {
		return fmt.Errorf("invalid level %d for %d", level, p)
	}
	if err := d.client.Set(ctx, makeLevelKey(p), level, 0).Err(); err != nil {
		return fmt.Errorf("failed to set level of %d: %w", p, err)
	}
	return nil
}
