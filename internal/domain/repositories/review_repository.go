package repositories

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create inserts a review and fills in its generated id and timestamp
	Create(ctx context.Context, review *entities.Review) error

	// ListByPublication returns the reviews of a publication, newest first
	ListByPublication(ctx context.Context, publicationID int64) ([]*entities.Review, error)

	// ListByPublicationIDs returns the reviews of every listed publication, newest first
	ListByPublicationIDs(ctx context.Context, publicationIDs []int64) ([]*entities.Review, error)
}
