package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/providers"
	redisclient "github.com/citylinker/backend/internal/infrastructure/clients/redis"
)

const keyPrefix = "citylinker:session:"

// RedisStore implements the SessionStore interface using Redis. Records expire with the key TTL.
type RedisStore struct {
	client *redisclient.Client
	now    func() time.Time
}

// NewRedisStore creates a new Redis session store
func NewRedisStore(client *redisclient.Client) providers.SessionStore {
	return &RedisStore{client: client, now: time.Now}
}

// Save stores the session as JSON with a TTL matching its expiry
func (s *RedisStore) Save(ctx context.Context, session *entities.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Client().Set(ctx, keyPrefix+session.Token, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get retrieves a session by token
func (s *RedisStore) Get(ctx context.Context, token string) (*entities.Session, error) {
	value, err := s.client.Client().Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session entities.Session
	if err := json.Unmarshal(value, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, nil
	}
	return &session, nil
}

// Delete removes a session
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Client().Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
