package repositories

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create inserts a user and fills in its generated id and timestamps
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// GetByIDs retrieves every user whose id is in ids, in no particular order
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.User, error)

	// List returns all users, newest first
	List(ctx context.Context) ([]*entities.User, error)

	// Update applies the non-nil fields and returns the updated row
	Update(ctx context.Context, id int64, update entities.UserUpdate) (*entities.User, error)

	// Delete removes a user together with their publications and reviews
	Delete(ctx context.Context, id int64) error
}
