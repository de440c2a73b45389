package services

import (
	"context"
	"strings"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/providers"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

// User facing messages shared with the HTTP layer
const (
	DuplicateEmailMessage     = "Cette adresse email est déjà associée à un compte. Veuillez vous connecter."
	InvalidCredentialsMessage = "Adresse email ou mot de passe incorrect."
	UserNotFoundMessage       = "Utilisateur non trouvé"
)

// RegisterInput is a validated self-service registration
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      entities.Role
	Phone     *string

	BusinessName        *string
	BusinessDescription *string
	BusinessAddress     *string
	BusinessPhone       *string
	BusinessWebsite     *string
	BusinessImage       *string
}

// AuthService handles registration, login and self-service profile changes
type AuthService struct {
	storage *Storage
	hasher  providers.PasswordHasher
}

// NewAuthService creates a new auth service
func NewAuthService(storage *Storage, hasher providers.PasswordHasher) *AuthService {
	return &AuthService{storage: storage, hasher: hasher}
}

// NormalizeEmail is applied to every email before it is stored or looked up
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a client or business account. Admin accounts cannot be self-registered.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entities.User, error) {
	if in.Role != entities.RoleClient && in.Role != entities.RoleBusiness {
		return nil, apperrors.NewValidationError("Rôle invalide")
	}

	email := NormalizeEmail(in.Email)
	existing, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(DuplicateEmailMessage, nil)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	return s.storage.CreateUser(ctx, &entities.User{
		Email:               email,
		Password:            hash,
		FirstName:           strings.TrimSpace(in.FirstName),
		LastName:            strings.TrimSpace(in.LastName),
		Phone:               in.Phone,
		Role:                in.Role,
		BusinessName:        in.BusinessName,
		BusinessDescription: in.BusinessDescription,
		BusinessAddress:     in.BusinessAddress,
		BusinessPhone:       in.BusinessPhone,
		BusinessWebsite:     in.BusinessWebsite,
		BusinessImage:       in.BusinessImage,
	})
}

// Login checks the credentials. Unknown email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(user.Password, password) {
		return nil, apperrors.NewUnauthorizedError(InvalidCredentialsMessage)
	}
	return user, nil
}

// CurrentUser returns the user behind a session
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*entities.User, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError(UserNotFoundMessage)
	}
	return user, nil
}

// UpdateProfile changes the profile fields of the caller's own account
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, profile entities.UserProfileUpdate) (*entities.User, error) {
	user, err := s.storage.UpdateUser(ctx, userID, entities.UserUpdate{UserProfileUpdate: profile})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError(UserNotFoundMessage)
	}
	return user, nil
}

// EnsureAdmin creates a verified admin account, or promotes the existing account with that email
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, firstName, lastName string) (*entities.User, bool, error) {
	email = NormalizeEmail(email)
	existing, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.Role == entities.RoleAdmin {
			return existing, false, nil
		}
		role := entities.RoleAdmin
		verified := true
		user, err := s.storage.UpdateUser(ctx, existing.ID, entities.UserUpdate{Role: &role, BusinessVerified: &verified})
		return user, false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, apperrors.NewInternalError("failed to hash password", err)
	}
	user, err := s.storage.CreateUser(ctx, &entities.User{
		Email:            email,
		Password:         hash,
		FirstName:        firstName,
		LastName:         lastName,
		Role:             entities.RoleAdmin,
		BusinessVerified: true,
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
