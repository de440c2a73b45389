package memory

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
)

type statsRepository struct {
	s *Store
}

func (r *statsRepository) AdminStats(_ context.Context) (*entities.AdminStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &entities.AdminStats{
		TotalUsers:        int64(len(r.s.users)),
		TotalPublications: int64(len(r.s.publications)),
		TotalReviews:      int64(len(r.s.reviews)),
	}
	for _, u := range r.s.users {
		switch u.Role {
		case entities.RoleBusiness:
			stats.TotalBusinesses++
		case entities.RoleClient:
			stats.TotalClients++
		}
	}
	for _, p := range r.s.publications {
		if p.Status == entities.StatusPending {
			stats.PendingPublications++
		}
	}
	return stats, nil
}

func (r *statsRepository) BusinessStats(_ context.Context, userID int64) (*entities.BusinessStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &entities.BusinessStats{}
	owned := make(map[int64]bool)
	for _, p := range r.s.publications {
		if p.UserID != userID {
			continue
		}
		owned[p.ID] = true
		stats.TotalViews += int64(p.Views)
		switch p.Status {
		case entities.StatusPending:
			stats.PendingCount++
		case entities.StatusApproved:
			stats.ApprovedCount++
		}
	}

	sum := 0
	for _, review := range r.s.reviews {
		if owned[review.PublicationID] {
			stats.TotalReviews++
			sum += review.Rating
		}
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats, nil
}
