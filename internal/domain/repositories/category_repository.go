package repositories

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
)

// CategoryRepository defines the interface for category operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) error
	GetByID(ctx context.Context, id int64) (*entities.Category, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.Category, error)

	// ListWithCounts returns every category with its number of approved publications
	ListWithCounts(ctx context.Context) ([]*entities.CategoryWithCount, error)
}
