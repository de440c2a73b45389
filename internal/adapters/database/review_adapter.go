package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/repositories"
	"github.com/citylinker/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

var reviewColumns = []interface{}{"id", "user_id", "publication_id", "rating", "comment", "created_at"}

// ReviewAdapter implements ReviewRepository on PostgreSQL
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	if review == nil {
		return apperrors.NewInternalError("review is nil", fmt.Errorf("review is nil"))
	}

	record := goqu.Record{
		"user_id":        review.UserID,
		"publication_id": review.PublicationID,
		"rating":         review.Rating,
		"comment":        nullString(review.Comment),
	}

	query, args, err := a.db.Insert("reviews").Rows(record).Returning("id", "created_at").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&review.ID, &review.CreatedAt); err != nil {
		return mapWriteError("failed to create review", "Cet avis existe déjà", err)
	}
	return nil
}

// ListByPublication returns the reviews of a publication, newest first
func (a *ReviewAdapter) ListByPublication(ctx context.Context, publicationID int64) ([]*entities.Review, error) {
	return a.ListByPublicationIDs(ctx, []int64{publicationID})
}

// ListByPublicationIDs returns the reviews of every listed publication, newest first
func (a *ReviewAdapter) ListByPublicationIDs(ctx context.Context, publicationIDs []int64) ([]*entities.Review, error) {
	if len(publicationIDs) == 0 {
		return []*entities.Review{}, nil
	}

	query, args, err := a.db.From("reviews").Select(reviewColumns...).
		Where(goqu.C("publication_id").In(publicationIDs)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := make([]*entities.Review, 0)
	for rows.Next() {
		var (
			r       entities.Review
			comment sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.PublicationID, &r.Rating, &comment, &r.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		r.Comment = stringPtr(comment)
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reviews", err)
	}
	return reviews, nil
}
