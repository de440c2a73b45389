package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/providers"
)

// DefaultSessionTTL is how long a login stays valid
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionService issues and resolves server-side sessions keyed by an opaque token
type SessionService struct {
	store providers.SessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(store providers.SessionStore, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{store: store, ttl: ttl, now: time.Now}
}

// TTL returns the session lifetime
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Start opens a session for userID
func (s *SessionService) Start(ctx context.Context, userID int64) (*entities.Session, error) {
	now := s.now().UTC()
	session := &entities.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return session, nil
}

// Resolve returns the user id behind token, 0 for unknown or expired sessions
func (s *SessionService) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	session, err := s.store.Get(ctx, token)
	if err != nil {
		return 0, err
	}
	if session == nil || session.Expired(s.now()) {
		return 0, nil
	}
	return session.UserID, nil
}

// End destroys the session behind token
func (s *SessionService) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Delete(ctx, token)
}
