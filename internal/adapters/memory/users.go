package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/citylinker/backend/internal/domain/entities"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

const duplicateEmailMessage = "Cette adresse email est déjà associée à un compte. Veuillez vous connecter."

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(_ context.Context, user *entities.User) error {
	if user == nil {
		return apperrors.NewInternalError("user is nil", fmt.Errorf("user is nil"))
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return apperrors.NewConflictError(duplicateEmailMessage, fmt.Errorf("users.email %q already exists", user.Email))
		}
	}

	if user.Role == "" {
		user.Role = entities.RoleClient
	}
	now := r.s.now()
	user.ID = r.s.nextID("users")
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Utilisateur non trouvé")
	}
	out := *user
	return &out, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError("Utilisateur non trouvé")
}

func (r *userRepository) GetByIDs(_ context.Context, ids []int64) ([]*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*entities.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.s.users[id]; ok {
			out := *user
			users = append(users, &out)
		}
	}
	return users, nil
}

func (r *userRepository) List(_ context.Context) ([]*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*entities.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		out := *user
		users = append(users, &out)
	}
	newestFirst(users,
		func(u *entities.User) time.Time { return u.CreatedAt },
		func(u *entities.User) int64 { return u.ID })
	return users, nil
}

func (r *userRepository) Update(_ context.Context, id int64, update entities.UserUpdate) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Utilisateur non trouvé")
	}

	if !update.IsEmpty() {
		p := update.UserProfileUpdate
		if p.FirstName != nil {
			user.FirstName = *p.FirstName
		}
		if p.LastName != nil {
			user.LastName = *p.LastName
		}
		for _, field := range []struct {
			dst **string
			src *string
		}{
			{&user.Phone, p.Phone},
			{&user.BusinessName, p.BusinessName},
			{&user.BusinessDescription, p.BusinessDescription},
			{&user.BusinessAddress, p.BusinessAddress},
			{&user.BusinessPhone, p.BusinessPhone},
			{&user.BusinessWebsite, p.BusinessWebsite},
			{&user.BusinessImage, p.BusinessImage},
		} {
			if field.src != nil {
				*field.dst = clearable(field.src)
			}
		}
		if update.Role != nil {
			user.Role = *update.Role
		}
		if update.BusinessVerified != nil {
			user.BusinessVerified = *update.BusinessVerified
		}
		user.UpdatedAt = r.s.now()
	}

	out := *user
	return &out, nil
}

func (r *userRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deleteUserLocked(id)
	return nil
}
