package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/repositories"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

type publicationRepository struct {
	s *Store
}

func (r *publicationRepository) Create(_ context.Context, publication *entities.Publication) error {
	if publication == nil {
		return apperrors.NewInternalError("publication is nil", fmt.Errorf("publication is nil"))
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[publication.UserID]; !ok {
		return invalidReference("publications.user_id", publication.UserID)
	}
	if _, ok := r.s.categories[publication.CategoryID]; !ok {
		return invalidReference("publications.category_id", publication.CategoryID)
	}

	if publication.Status == "" {
		publication.Status = entities.StatusPending
	}
	now := r.s.now()
	publication.ID = r.s.nextID("publications")
	publication.Views = 0
	publication.CreatedAt = now
	publication.UpdatedAt = now

	stored := *publication
	r.s.publications[publication.ID] = &stored
	return nil
}

func (r *publicationRepository) GetByID(_ context.Context, id int64) (*entities.Publication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	publication, ok := r.s.publications[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Publication non trouvée")
	}
	out := *publication
	return &out, nil
}

func (r *publicationRepository) List(_ context.Context, filter repositories.PublicationFilter) ([]*entities.Publication, error) {
	return r.collect(func(p *entities.Publication) bool {
		if filter.Status != nil && p.Status != *filter.Status {
			return false
		}
		return filter.UserID == 0 || p.UserID == filter.UserID
	}, filter.ByViews, filter.Limit), nil
}

func (r *publicationRepository) Search(_ context.Context, filter entities.SearchFilter) ([]*entities.Publication, error) {
	query := strings.ToLower(filter.Query)
	return r.collect(func(p *entities.Publication) bool {
		if p.Status != entities.StatusApproved {
			return false
		}
		if filter.Type != "" && p.Type != filter.Type {
			return false
		}
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			return false
		}
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Description), query)
	}, false, 0), nil
}

func (r *publicationRepository) collect(keep func(*entities.Publication) bool, byViews bool, limit int) []*entities.Publication {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Publication, 0)
	for _, p := range r.s.publications {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}

	newestFirst(out,
		func(p *entities.Publication) time.Time { return p.CreatedAt },
		func(p *entities.Publication) int64 { return p.ID })
	if byViews {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *publicationRepository) Update(_ context.Context, id int64, update entities.PublicationUpdate) (*entities.Publication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.publications[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Publication non trouvée")
	}

	if update.Type != nil {
		p.Type = *update.Type
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Status != nil {
		p.Status = *update.Status
	}
	for _, field := range []struct {
		dst **string
		src *string
	}{
		{&p.Slug, update.Slug},
		{&p.Content, update.Content},
		{&p.Image, update.Image},
		{&p.Price, update.Price},
		{&p.Location, update.Location},
		{&p.RejectionReason, update.RejectionReason},
	} {
		if field.src != nil {
			*field.dst = clearable(field.src)
		}
	}
	p.UpdatedAt = r.s.now()

	out := *p
	return &out, nil
}

func (r *publicationRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deletePublicationLocked(id)
	return nil
}

func (r *publicationRepository) IncrementViews(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p, ok := r.s.publications[id]; ok {
		p.Views++
	}
	return nil
}

func invalidReference(column string, id int64) error {
	return &apperrors.AppError{
		Type:    apperrors.ErrorTypeValidation,
		Message: "Référence invalide",
		Err:     fmt.Errorf("%s %d does not exist", column, id),
	}
}
