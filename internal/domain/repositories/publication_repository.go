package repositories

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
)

// PublicationFilter narrows List. Zero values mean "any".
type PublicationFilter struct {
	Status *entities.PublicationStatus
	UserID int64
	// ByViews orders by views descending instead of newest first
	ByViews bool
	Limit   int
}

// PublicationRepository defines the interface for publication operations
type PublicationRepository interface {
	// Create inserts a publication and fills in its generated id, timestamps and views
	Create(ctx context.Context, publication *entities.Publication) error

	// GetByID retrieves a publication by ID
	GetByID(ctx context.Context, id int64) (*entities.Publication, error)

	// List returns the publications matching filter
	List(ctx context.Context, filter PublicationFilter) ([]*entities.Publication, error)

	// Search returns approved publications matching filter, newest first
	Search(ctx context.Context, filter entities.SearchFilter) ([]*entities.Publication, error)

	// Update applies the non-nil fields and returns the updated row
	Update(ctx context.Context, id int64, update entities.PublicationUpdate) (*entities.Publication, error)

	// Delete removes a publication and its reviews
	Delete(ctx context.Context, id int64) error

	// IncrementViews adds one to the view counter in a single statement
	IncrementViews(ctx context.Context, id int64) error
}
