package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/open-builders/giveaway-engine/internal/common/logger"
)

// Options configure the connection. Zero values fall back to go-redis
// defaults, except ConnectTries which defaults to 1.
type Options struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ConnectTries uint
}

// Client holds the single Redis connection pool shared by the giveaway
// gateway, the member directory and the event stream.
type Client struct {
	*redis.Client
}

// Open connects and pings, retrying the ping with exponential backoff so the
// process can start alongside a Redis that is still booting.
func Open(ctx context.Context, opts Options) (*Client, error) {
	if opts.Addr == "" {
		return nil, errors.New("empty redis addr")
	}
	if opts.ConnectTries == 0 {
		opts.ConnectTries = 1
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		PoolSize:    opts.PoolSize,
		DialTimeout: opts.DialTimeout,
	})

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, rdb.Ping(ctx).Err()
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(opts.ConnectTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn().Err(err).Str("addr", opts.Addr).Dur("retry_in", next).Msg("Redis not reachable yet")
		}),
	)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &Client{Client: rdb}, nil
}

// HealthCheck backs the readiness probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
