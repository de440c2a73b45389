package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/citylinker/backend/pkg/config"
	"github.com/citylinker/backend/pkg/retry"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Client represents a Redis client
type Client struct {
	client *redis.Client
}

// NewClient dials Redis, retrying with a short backoff. The caller decides
// what to do when Redis stays unreachable.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 3
	retryCfg.MaxTotalTimeout = 10 * time.Second

	err := retry.Do(ctx, retryCfg, "Redis",
		func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Redis connection attempt failed")
		},
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info().Str("addr", cfg.RedisAddr()).Msg("Connected to Redis")
	return &Client{client: client}, nil
}

// NewFromClient wraps an existing go-redis client
func NewFromClient(client *redis.Client) *Client {
	return &Client{client: client}
}

// Client returns the underlying Redis client
func (c *Client) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping verifies the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
