package services

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/citylinker/backend/internal/domain/entities"
)

// enrichmentLoaders batch the owner, category and review lookups of one read.
// They live for a single facade call so nothing is cached across requests.
type enrichmentLoaders struct {
	users      *dataloader.Loader[int64, *entities.User]
	categories *dataloader.Loader[int64, *entities.Category]
	reviews    *dataloader.Loader[int64, []entities.Review]
}

// batchOptions dispatch as soon as every key of the read has been queued
func batchOptions[K comparable, V any](keys int) []dataloader.Option[K, V] {
	return []dataloader.Option[K, V]{
		dataloader.WithBatchCapacity[K, V](keys),
		dataloader.WithWait[K, V](time.Millisecond),
	}
}

func (s *Storage) userLoader(keys int) *dataloader.Loader[int64, *entities.User] {
	return dataloader.NewBatchedLoader(func(ctx context.Context, ids []int64) []*dataloader.Result[*entities.User] {
		results := make([]*dataloader.Result[*entities.User], len(ids))
		users, err := s.users.GetByIDs(ctx, ids)

		byID := make(map[int64]*entities.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		for i, id := range ids {
			if err != nil {
				results[i] = &dataloader.Result[*entities.User]{Error: err}
				continue
			}
			// a missing user is not an error, the caller substitutes a placeholder
			results[i] = &dataloader.Result[*entities.User]{Data: byID[id]}
		}
		return results
	}, batchOptions[int64, *entities.User](keys)...)
}

func (s *Storage) categoryLoader(keys int) *dataloader.Loader[int64, *entities.Category] {
	return dataloader.NewBatchedLoader(func(ctx context.Context, ids []int64) []*dataloader.Result[*entities.Category] {
		results := make([]*dataloader.Result[*entities.Category], len(ids))
		categories, err := s.categories.GetByIDs(ctx, ids)

		byID := make(map[int64]*entities.Category, len(categories))
		for _, c := range categories {
			byID[c.ID] = c
		}
		for i, id := range ids {
			if err != nil {
				results[i] = &dataloader.Result[*entities.Category]{Error: err}
				continue
			}
			results[i] = &dataloader.Result[*entities.Category]{Data: byID[id]}
		}
		return results
	}, batchOptions[int64, *entities.Category](keys)...)
}

func (s *Storage) reviewLoader(keys int) *dataloader.Loader[int64, []entities.Review] {
	return dataloader.NewBatchedLoader(func(ctx context.Context, ids []int64) []*dataloader.Result[[]entities.Review] {
		results := make([]*dataloader.Result[[]entities.Review], len(ids))
		reviews, err := s.reviews.ListByPublicationIDs(ctx, ids)

		byPublication := make(map[int64][]entities.Review, len(ids))
		for _, r := range reviews {
			byPublication[r.PublicationID] = append(byPublication[r.PublicationID], *r)
		}
		for i, id := range ids {
			if err != nil {
				results[i] = &dataloader.Result[[]entities.Review]{Error: err}
				continue
			}
			list := byPublication[id]
			if list == nil {
				list = []entities.Review{}
			}
			results[i] = &dataloader.Result[[]entities.Review]{Data: list}
		}
		return results
	}, batchOptions[int64, []entities.Review](keys)...)
}

// loadAll resolves every key through loader in one batch
func loadAll[K comparable, V any](ctx context.Context, loader *dataloader.Loader[K, V], keys []K) (map[K]V, error) {
	out := make(map[K]V, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, errs := loader.LoadMany(ctx, keys)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for i, key := range keys {
		out[key] = values[i]
	}
	return out, nil
}

func uniqueIDs[T any](items []*T, id func(*T) int64) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		key := id(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ids = append(ids, key)
	}
	return ids
}

// redacted returns a copy of u without its password hash, or the placeholder user
func redacted(u *entities.User) *entities.User {
	if u == nil {
		return entities.UnknownUser()
	}
	out := *u
	out.Password = ""
	return &out
}

// enrich attaches owner, category, reviews and the rating aggregate to each publication
func (s *Storage) enrich(ctx context.Context, publications []*entities.Publication) ([]*entities.PublicationWithDetails, error) {
	out := make([]*entities.PublicationWithDetails, 0, len(publications))
	if len(publications) == 0 {
		return out, nil
	}

	userIDs := uniqueIDs(publications, func(p *entities.Publication) int64 { return p.UserID })
	categoryIDs := uniqueIDs(publications, func(p *entities.Publication) int64 { return p.CategoryID })
	publicationIDs := uniqueIDs(publications, func(p *entities.Publication) int64 { return p.ID })

	loaders := enrichmentLoaders{
		users:      s.userLoader(len(userIDs)),
		categories: s.categoryLoader(len(categoryIDs)),
		reviews:    s.reviewLoader(len(publicationIDs)),
	}

	owners, err := loadAll(ctx, loaders.users, userIDs)
	if err != nil {
		return nil, err
	}
	categories, err := loadAll(ctx, loaders.categories, categoryIDs)
	if err != nil {
		return nil, err
	}
	reviews, err := loadAll(ctx, loaders.reviews, publicationIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range publications {
		list := reviews[p.ID]
		if list == nil {
			list = []entities.Review{}
		}
		out = append(out, &entities.PublicationWithDetails{
			Publication:   *p,
			User:          redacted(owners[p.UserID]),
			Category:      categories[p.CategoryID],
			Reviews:       list,
			AverageRating: entities.AverageRating(list),
			ReviewCount:   len(list),
		})
	}
	return out, nil
}

// withAuthors pairs each review with its author, or the placeholder when the author is gone
func (s *Storage) withAuthors(ctx context.Context, reviews []*entities.Review) ([]*entities.ReviewWithUser, error) {
	out := make([]*entities.ReviewWithUser, 0, len(reviews))
	if len(reviews) == 0 {
		return out, nil
	}

	userIDs := uniqueIDs(reviews, func(r *entities.Review) int64 { return r.UserID })
	authors, err := loadAll(ctx, s.userLoader(len(userIDs)), userIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range reviews {
		out = append(out, &entities.ReviewWithUser{Review: *r, User: redacted(authors[r.UserID])})
	}
	return out, nil
}
