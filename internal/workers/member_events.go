package workers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/open-builders/giveaway-engine/internal/common/logger"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
)

const (
	consumerGroup = "giveaway_engine_consumers"
	consumerName  = "giveaway_worker_1"

	eventMemberRoles = "member_roles"
	eventMemberLevel = "member_level"
)

// MemberWriter stores member data published by collaborators.
type MemberWriter interface {
	SetRoles(ctx context.Context, p models.ParticipantID, roles []models.RoleRef) error
	SetLevel(ctx context.Context, p models.ParticipantID, level int) error
}

// MemberEventsWorker applies member_roles and member_level events from a
// Redis stream to the member directory.
type MemberEventsWorker struct {
	rdb       redis.UniversalClient
	directory MemberWriter
	stream    string
	block     time.Duration
}

// NewMemberEventsWorker reads stream; block bounds each XREADGROUP wait and
// therefore how long Start takes to notice cancellation.
func NewMemberEventsWorker(rdb redis.UniversalClient, directory MemberWriter, stream string, block time.Duration) *MemberEventsWorker {
	if block <= 0 {
		block = 5 * time.Second
	}
	return &MemberEventsWorker{
		rdb:       rdb,
		directory: directory,
		stream:    stream,
		block:     block,
	}
}

// Start consumes the stream until ctx is cancelled.
func (w *MemberEventsWorker) Start(ctx context.Context) {
	err := w.rdb.XGroupCreateMkStream(ctx, w.stream, consumerGroup, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		logger.Error().Err(err).Str("stream", w.stream).Msg("Failed to create consumer group")
	}

	logger.Info().Str("stream", w.stream).Msg("Starting member events worker")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping member events worker")
			return
		default:
		}

		entries, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: consumerName,
			Streams:  []string{w.stream, ">"},
			Count:    10,
			Block:    w.block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			logger.Warn().Err(err).Str("stream", w.stream).Msg("Failed to read member events")
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		for _, stream := range entries {
			for _, msg := range stream.Messages {
				if err := w.processMessage(ctx, msg.Values); err != nil {
					logger.Warn().Err(err).Str("message_id", msg.ID).Msg("Skipping member event")
				}
				// malformed events are acknowledged too; redelivery would not fix them
				if err := w.rdb.XAck(ctx, w.stream, consumerGroup, msg.ID).Err(); err != nil {
					logger.Warn().Err(err).Str("message_id", msg.ID).Msg("Failed to ack member event")
				}
			}
		}
	}
}

func (w *MemberEventsWorker) processMessage(ctx context.Context, values map[string]interface{}) error {
	eventType, _ := values["type"].(string)
	switch eventType {
	case eventMemberRoles:
		p, err := parseParticipant(values)
		if err != nil {
			return err
		}
		raw, _ := values["roles"].(string)
		roles := parseRoles(raw)
		if err := w.directory.SetRoles(ctx, p, roles); err != nil {
			return err
		}
		logger.Debug().Int64("participant", int64(p)).Int("roles", len(roles)).Msg("Member roles updated")
	case eventMemberLevel:
		p, err := parseParticipant(values)
		if err != nil {
			return err
		}
		raw, _ := values["level"].(string)
		level, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid level %q for %d", raw, p)
		}
		if err := w.directory.SetLevel(ctx, p, level); err != nil {
			return err
		}
		logger.Debug().Int64("participant", int64(p)).Int("level", level).Msg("Member level updated")
	default:
		// other collaborators share the stream
	}
	return nil
}

func parseParticipant(values map[string]interface{}) (models.ParticipantID, error) {
	raw, _ := values["user_id"].(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user_id %q", raw)
	}
	return models.ParticipantID(id), nil
}

func parseRoles(raw string) []models.RoleRef {
	var roles []models.RoleRef
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			roles = append(roles, models.RoleRef(part))
		}
	}
	return roles
}
