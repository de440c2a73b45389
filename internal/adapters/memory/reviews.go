package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/citylinker/backend/internal/domain/entities"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

type reviewRepository struct {
	s *Store
}

func (r *reviewRepository) Create(_ context.Context, review *entities.Review) error {
	if review == nil {
		return apperrors.NewInternalError("review is nil", fmt.Errorf("review is nil"))
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[review.UserID]; !ok {
		return invalidReference("reviews.user_id", review.UserID)
	}
	if _, ok := r.s.publications[review.PublicationID]; !ok {
		return invalidReference("reviews.publication_id", review.PublicationID)
	}

	review.ID = r.s.nextID("reviews")
	review.CreatedAt = r.s.now()

	stored := *review
	stored.Comment = clearable(review.Comment)
	r.s.reviews[review.ID] = &stored
	return nil
}

func (r *reviewRepository) ListByPublication(ctx context.Context, publicationID int64) ([]*entities.Review, error) {
	return r.ListByPublicationIDs(ctx, []int64{publicationID})
}

func (r *reviewRepository) ListByPublicationIDs(_ context.Context, publicationIDs []int64) ([]*entities.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[int64]bool, len(publicationIDs))
	for _, id := range publicationIDs {
		wanted[id] = true
	}

	reviews := make([]*entities.Review, 0)
	for _, review := range r.s.reviews {
		if wanted[review.PublicationID] {
			out := *review
			reviews = append(reviews, &out)
		}
	}
	newestFirst(reviews,
		func(rv *entities.Review) time.Time { return rv.CreatedAt },
		func(rv *entities.Review) int64 { return rv.ID })
	return reviews, nil
}
