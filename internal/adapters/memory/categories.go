package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/citylinker/backend/internal/domain/entities"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

type categoryRepository struct {
	s *Store
}

func (r *categoryRepository) Create(_ context.Context, category *entities.Category) error {
	if category == nil {
		return apperrors.NewInternalError("category is nil", fmt.Errorf("category is nil"))
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.categories {
		if existing.Name == category.Name {
			return apperrors.NewConflictError("Cette catégorie existe déjà", fmt.Errorf("categories.name %q already exists", category.Name))
		}
	}

	category.ID = r.s.nextID("categories")
	stored := *category
	stored.Description = clearable(category.Description)
	r.s.categories[category.ID] = &stored
	return nil
}

func (r *categoryRepository) GetByID(_ context.Context, id int64) (*entities.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	category, ok := r.s.categories[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Catégorie non trouvée")
	}
	out := *category
	return &out, nil
}

func (r *categoryRepository) GetByIDs(_ context.Context, ids []int64) ([]*entities.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	categories := make([]*entities.Category, 0, len(ids))
	for _, id := range ids {
		if category, ok := r.s.categories[id]; ok {
			out := *category
			categories = append(categories, &out)
		}
	}
	return categories, nil
}

func (r *categoryRepository) ListWithCounts(_ context.Context) ([]*entities.CategoryWithCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[int64]int)
	for _, p := range r.s.publications {
		if p.Status == entities.StatusApproved {
			counts[p.CategoryID]++
		}
	}

	categories := make([]*entities.CategoryWithCount, 0, len(r.s.categories))
	for id, category := range r.s.categories {
		categories = append(categories, &entities.CategoryWithCount{Category: *category, Count: counts[id]})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}
