package session

import (
	"context"
	"sync"
	"time"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/providers"
)

// MemoryStore keeps sessions in a map. Expired entries are dropped lazily on read
// and swept whenever the map is written to.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]entities.Session
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entities.Session),
		now:      time.Now,
	}
}

var _ providers.SessionStore = (*MemoryStore)(nil)

// Save stores a session
func (s *MemoryStore) Save(_ context.Context, session *entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, existing := range s.sessions {
		if existing.Expired(now) {
			delete(s.sessions, token)
		}
	}
	s.sessions[session.Token] = *session
	return nil
}

// Get retrieves a session by token
func (s *MemoryStore) Get(_ context.Context, token string) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	if session.Expired(s.now()) {
		delete(s.sessions, token)
		return nil, nil
	}
	return &session, nil
}

// Delete removes a session
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
