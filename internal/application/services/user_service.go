package services

import (
	"context"

	"github.com/citylinker/backend/internal/domain/entities"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

// SelfDeletionMessage is returned when an admin tries to delete their own account
const SelfDeletionMessage = "Impossible de supprimer votre propre compte Admin"

// UserStore is the part of the storage facade needed for user administration
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*entities.User, error)
	GetAllUsers(ctx context.Context) ([]*entities.User, error)
	UpdateUser(ctx context.Context, id int64, update entities.UserUpdate) (*entities.User, error)
}

// UserDeleter is implemented by stores able to remove users
type UserDeleter interface {
	DeleteUser(ctx context.Context, id int64) error
}

// AdminUserUpdate lists what an admin may change on an account.
// Email and password are deliberately absent.
type AdminUserUpdate struct {
	entities.UserProfileUpdate
	Role             *entities.Role
	BusinessVerified *bool
}

// UserService implements the admin user management actions
type UserService struct {
	store UserStore
}

// NewUserService creates a new user service
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// List returns every account, newest first
func (s *UserService) List(ctx context.Context) ([]*entities.User, error) {
	return s.store.GetAllUsers(ctx)
}

// Update applies an admin edit. A role change is effective on the user's next request.
func (s *UserService) Update(ctx context.Context, id int64, in AdminUserUpdate) (*entities.User, error) {
	if in.Role != nil && !in.Role.Valid() {
		return nil, apperrors.NewValidationError("Rôle invalide")
	}

	user, err := s.store.UpdateUser(ctx, id, entities.UserUpdate{
		UserProfileUpdate: in.UserProfileUpdate,
		Role:              in.Role,
		BusinessVerified:  in.BusinessVerified,
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError(UserNotFoundMessage)
	}
	return user, nil
}

// Delete removes the account id on behalf of actorID, cascading to its
// publications and reviews. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return apperrors.NewForbiddenError(SelfDeletionMessage)
	}
	deleter, ok := s.store.(UserDeleter)
	if !ok {
		return apperrors.NewNotImplementedError("Fonctionnalité non implémentée dans le stockage")
	}
	return deleter.DeleteUser(ctx, id)
}
