package services

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/repositories"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

// DefaultTrendingLimit is the number of publications on the trending strip
const DefaultTrendingLimit = 8

// Storage is the single data access facade used by the HTTP layer.
// Lookups return (nil, nil) for absent rows; publications leave it enriched.
type Storage struct {
	users        repositories.UserRepository
	categories   repositories.CategoryRepository
	publications repositories.PublicationRepository
	reviews      repositories.ReviewRepository
	stats        repositories.StatsRepository
}

// NewStorage creates a new storage facade
func NewStorage(
	users repositories.UserRepository,
	categories repositories.CategoryRepository,
	publications repositories.PublicationRepository,
	reviews repositories.ReviewRepository,
	stats repositories.StatsRepository,
) *Storage {
	return &Storage{
		users:        users,
		categories:   categories,
		publications: publications,
		reviews:      reviews,
		stats:        stats,
	}
}

// absent turns a not found error into a nil result
func absent[T any](value *T, err error) (*T, error) {
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

// GetUser returns the user or nil
func (s *Storage) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	return absent(s.users.GetByID(ctx, id))
}

// GetUserByEmail returns the user or nil
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return absent(s.users.GetByEmail(ctx, email))
}

// CreateUser inserts user. A duplicate email fails with a conflict error.
func (s *Storage) CreateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies a partial update and returns the row, or nil when the user does not exist
func (s *Storage) UpdateUser(ctx context.Context, id int64, update entities.UserUpdate) (*entities.User, error) {
	return absent(s.users.Update(ctx, id, update))
}

// GetAllUsers returns every user, most recent first
func (s *Storage) GetAllUsers(ctx context.Context) ([]*entities.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes a user with their publications and reviews. Unknown ids are a no-op.
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// GetCategories returns every category with its approved publication count
func (s *Storage) GetCategories(ctx context.Context) ([]*entities.CategoryWithCount, error) {
	return s.categories.ListWithCounts(ctx)
}

// GetCategoryByID returns the category or nil
func (s *Storage) GetCategoryByID(ctx context.Context, id int64) (*entities.Category, error) {
	return absent(s.categories.GetByID(ctx, id))
}

// CreateCategory inserts a category
func (s *Storage) CreateCategory(ctx context.Context, category *entities.Category) (*entities.Category, error) {
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetPublications lists publications newest first, optionally restricted to one status
func (s *Storage) GetPublications(ctx context.Context, status *entities.PublicationStatus) ([]*entities.PublicationWithDetails, error) {
	publications, err := s.publications.List(ctx, repositories.PublicationFilter{Status: status})
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, publications)
}

// GetPublication returns the bare publication row or nil
func (s *Storage) GetPublication(ctx context.Context, id int64) (*entities.Publication, error) {
	return absent(s.publications.GetByID(ctx, id))
}

// GetPublicationByID returns the enriched publication or nil
func (s *Storage) GetPublicationByID(ctx context.Context, id int64) (*entities.PublicationWithDetails, error) {
	publication, err := s.GetPublication(ctx, id)
	if err != nil || publication == nil {
		return nil, err
	}

	enriched, err := s.enrich(ctx, []*entities.Publication{publication})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

// GetPublicationsByUser lists the publications owned by userID, newest first
func (s *Storage) GetPublicationsByUser(ctx context.Context, userID int64) ([]*entities.PublicationWithDetails, error) {
	publications, err := s.publications.List(ctx, repositories.PublicationFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, publications)
}

// GetTrendingPublications returns at most limit approved publications by views, highest first
func (s *Storage) GetTrendingPublications(ctx context.Context, limit int) ([]*entities.PublicationWithDetails, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	approved := entities.StatusApproved
	publications, err := s.publications.List(ctx, repositories.PublicationFilter{
		Status:  &approved,
		ByViews: true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, publications)
}

// SearchPublications searches approved publications only
func (s *Storage) SearchPublications(ctx context.Context, filter entities.SearchFilter) ([]*entities.PublicationWithDetails, error) {
	publications, err := s.publications.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, publications)
}

// CreatePublication inserts a publication
func (s *Storage) CreatePublication(ctx context.Context, publication *entities.Publication) (*entities.Publication, error) {
	if err := s.publications.Create(ctx, publication); err != nil {
		return nil, err
	}
	return publication, nil
}

// UpdatePublication applies a partial update and returns the row, or nil when it does not exist
func (s *Storage) UpdatePublication(ctx context.Context, id int64, update entities.PublicationUpdate) (*entities.Publication, error) {
	return absent(s.publications.Update(ctx, id, update))
}

// DeletePublication removes a publication and its reviews
func (s *Storage) DeletePublication(ctx context.Context, id int64) error {
	return s.publications.Delete(ctx, id)
}

// IncrementPublicationViews adds one view
func (s *Storage) IncrementPublicationViews(ctx context.Context, id int64) error {
	return s.publications.IncrementViews(ctx, id)
}

// GetReviewsByPublication lists reviews newest first with their authors
func (s *Storage) GetReviewsByPublication(ctx context.Context, publicationID int64) ([]*entities.ReviewWithUser, error) {
	reviews, err := s.reviews.ListByPublication(ctx, publicationID)
	if err != nil {
		return nil, err
	}
	return s.withAuthors(ctx, reviews)
}

// CreateReview inserts a review
func (s *Storage) CreateReview(ctx context.Context, review *entities.Review) (*entities.Review, error) {
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetAdminStats returns the admin dashboard counters
func (s *Storage) GetAdminStats(ctx context.Context) (*entities.AdminStats, error) {
	return s.stats.AdminStats(ctx)
}

// GetBusinessStats returns the aggregates over the publications of userID
func (s *Storage) GetBusinessStats(ctx context.Context, userID int64) (*entities.BusinessStats, error) {
	return s.stats.BusinessStats(ctx, userID)
}
