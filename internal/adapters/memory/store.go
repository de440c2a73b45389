// Package memory keeps every table in process memory. It backs STORAGE_DRIVER=memory
// and the HTTP level tests, and mirrors the constraints of the PostgreSQL schema:
// unique emails and category names, foreign keys and ON DELETE CASCADE.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/repositories"
)

// Store holds the tables. Repositories obtained from it share one lock.
type Store struct {
	mu sync.RWMutex

	lastID       map[string]int64
	users        map[int64]*entities.User
	categories   map[int64]*entities.Category
	publications map[int64]*entities.Publication
	reviews      map[int64]*entities.Review

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		lastID:       make(map[string]int64),
		users:        make(map[int64]*entities.User),
		categories:   make(map[int64]*entities.Category),
		publications: make(map[int64]*entities.Publication),
		reviews:      make(map[int64]*entities.Review),
		now:          time.Now,
	}
}

// Users returns the user repository
func (s *Store) Users() repositories.UserRepository { return &userRepository{s} }

// Categories returns the category repository
func (s *Store) Categories() repositories.CategoryRepository { return &categoryRepository{s} }

// Publications returns the publication repository
func (s *Store) Publications() repositories.PublicationRepository { return &publicationRepository{s} }

// Reviews returns the review repository
func (s *Store) Reviews() repositories.ReviewRepository { return &reviewRepository{s} }

// Stats returns the stats repository
func (s *Store) Stats() repositories.StatsRepository { return &statsRepository{s} }

// nextID must be called with the write lock held
func (s *Store) nextID(table string) int64 {
	s.lastID[table]++
	return s.lastID[table]
}

// deleteUserLocked removes a user with everything that references it
func (s *Store) deleteUserLocked(id int64) {
	delete(s.users, id)
	for pid, p := range s.publications {
		if p.UserID == id {
			s.deletePublicationLocked(pid)
		}
	}
	for rid, r := range s.reviews {
		if r.UserID == id {
			delete(s.reviews, rid)
		}
	}
}

func (s *Store) deletePublicationLocked(id int64) {
	delete(s.publications, id)
	for rid, r := range s.reviews {
		if r.PublicationID == id {
			delete(s.reviews, rid)
		}
	}
}

// newestFirst orders by creation time, then id, both descending
func newestFirst[T any](items []*T, createdAt func(*T) time.Time, id func(*T) int64) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := createdAt(items[i]), createdAt(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}

// clearable mirrors the SQL adapters: "" stores NULL
func clearable(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := *v
	return &s
}
