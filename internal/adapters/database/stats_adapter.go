package database

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/repositories"
	"github.com/citylinker/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

const adminStatsQuery = `
SELECT
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM users WHERE role = 'business'),
	(SELECT COUNT(*) FROM users WHERE role = 'client'),
	(SELECT COUNT(*) FROM publications),
	(SELECT COUNT(*) FROM publications WHERE status = 'pending'),
	(SELECT COUNT(*) FROM reviews)`

const businessPublicationStatsQuery = `
SELECT
	COALESCE(SUM(views), 0),
	COUNT(*) FILTER (WHERE status = 'pending'),
	COUNT(*) FILTER (WHERE status = 'approved')
FROM publications
WHERE user_id = $1`

const businessReviewStatsQuery = `
SELECT COUNT(r.id), COALESCE(AVG(r.rating), 0)::float8
FROM reviews r
JOIN publications p ON p.id = r.publication_id
WHERE p.user_id = $1`

// StatsAdapter computes dashboard aggregates with plain SQL
type StatsAdapter struct {
	client *postgres.Client
}

// NewStatsAdapter creates a new stats adapter
func NewStatsAdapter(client *postgres.Client) repositories.StatsRepository {
	return &StatsAdapter{client: client}
}

// AdminStats counts users by role, publications and reviews
func (a *StatsAdapter) AdminStats(ctx context.Context) (*entities.AdminStats, error) {
	var s entities.AdminStats
	err := a.client.DB().QueryRowContext(ctx, adminStatsQuery).Scan(
		&s.TotalUsers, &s.TotalBusinesses, &s.TotalClients,
		&s.TotalPublications, &s.PendingPublications, &s.TotalReviews,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to compute admin stats", err)
	}
	return &s, nil
}

// BusinessStats aggregates over every publication owned by userID
func (a *StatsAdapter) BusinessStats(ctx context.Context, userID int64) (*entities.BusinessStats, error) {
	var s entities.BusinessStats
	err := a.client.DB().QueryRowContext(ctx, businessPublicationStatsQuery, userID).
		Scan(&s.TotalViews, &s.PendingCount, &s.ApprovedCount)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to compute business publication stats", err)
	}

	err = a.client.DB().QueryRowContext(ctx, businessReviewStatsQuery, userID).
		Scan(&s.TotalReviews, &s.AverageRating)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to compute business review stats", err)
	}
	return &s, nil
}
