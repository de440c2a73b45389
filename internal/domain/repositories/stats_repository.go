package repositories

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
)

// StatsRepository computes dashboard aggregates
type StatsRepository interface {
	AdminStats(ctx context.Context) (*entities.AdminStats, error)
	BusinessStats(ctx context.Context, userID int64) (*entities.BusinessStats, error)
}
