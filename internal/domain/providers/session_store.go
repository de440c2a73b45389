package providers

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
)

// SessionStore defines the interface for server-side session records
type SessionStore interface {
	// Save stores a session until its ExpiresAt
	Save(ctx context.Context, session *entities.Session) error

	// Get retrieves a session by token. Unknown or expired tokens yield (nil, nil).
	Get(ctx context.Context, token string) (*entities.Session, error)

	// Delete removes a session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}
