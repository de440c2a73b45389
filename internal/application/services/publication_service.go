package services

import (
	"context"
	"strings"

	"github.com/citylinker/backend/internal/domain/entities"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

// Moderation and ownership messages
const (
	PublicationNotFoundMessage = "Publication non trouvée"
	NotOwnerMessage            = "Non autorisé"
	InvalidStatusMessage       = "Statut invalide"
	InvalidCategoryMessage     = "Catégorie invalide"
)

// CreatePublicationInput is a validated publication submission
type CreatePublicationInput struct {
	CategoryID  int64
	Type        entities.PublicationType
	Title       string
	Slug        *string
	Description string
	Content     *string
	Image       *string
	Price       *string
	Location    *string
}

// PublicationService enforces the moderation state machine and the ownership rule
type PublicationService struct {
	storage *Storage
}

// NewPublicationService creates a new publication service
func NewPublicationService(storage *Storage) *PublicationService {
	return &PublicationService{storage: storage}
}

// CanManage reports whether actor may edit or delete publication
func CanManage(actor *entities.User, publication *entities.Publication) bool {
	if actor == nil || publication == nil {
		return false
	}
	return publication.UserID == actor.ID || actor.Role == entities.RoleAdmin
}

// Create submits a publication for review. It always starts pending.
func (s *PublicationService) Create(ctx context.Context, owner *entities.User, in CreatePublicationInput) (*entities.Publication, error) {
	if !in.Type.Valid() {
		return nil, apperrors.NewValidationError("Type de publication invalide")
	}
	category, err := s.storage.GetCategoryByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperrors.NewValidationError(InvalidCategoryMessage)
	}

	return s.storage.CreatePublication(ctx, &entities.Publication{
		UserID:      owner.ID,
		CategoryID:  category.ID,
		Type:        in.Type,
		Title:       strings.TrimSpace(in.Title),
		Slug:        in.Slug,
		Description: strings.TrimSpace(in.Description),
		Content:     in.Content,
		Image:       in.Image,
		Price:       in.Price,
		Location:    in.Location,
		Status:      entities.StatusPending,
	})
}

// Update edits a publication on behalf of actor. Any edit by a non-admin sends
// the publication back to pending whatever status was submitted and clears the
// previous rejection reason; an admin's submitted status is kept as is.
func (s *PublicationService) Update(ctx context.Context, actor *entities.User, id int64, update entities.PublicationUpdate) (*entities.Publication, error) {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	if update.Type != nil && !update.Type.Valid() {
		return nil, apperrors.NewValidationError("Type de publication invalide")
	}
	if actor.Role != entities.RoleAdmin {
		pending := entities.StatusPending
		cleared := ""
		update.Status = &pending
		update.RejectionReason = &cleared
	} else if update.Status != nil && !update.Status.Valid() {
		return nil, apperrors.NewValidationError(InvalidStatusMessage)
	}

	publication, err := s.storage.UpdatePublication(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if publication == nil {
		return nil, apperrors.NewNotFoundError(PublicationNotFoundMessage)
	}
	return publication, nil
}

// Delete removes a publication on behalf of actor
func (s *PublicationService) Delete(ctx context.Context, actor *entities.User, id int64) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.storage.DeletePublication(ctx, id)
}

func (s *PublicationService) authorize(ctx context.Context, actor *entities.User, id int64) (*entities.Publication, error) {
	existing, err := s.storage.GetPublication(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError(PublicationNotFoundMessage)
	}
	if !CanManage(actor, existing) {
		return nil, apperrors.NewForbiddenError(NotOwnerMessage)
	}
	return existing, nil
}

// Moderate records an admin decision. Only approved and rejected are accepted;
// the rejection reason is kept with a rejection and cleared on approval.
func (s *PublicationService) Moderate(ctx context.Context, id int64, status entities.PublicationStatus, reason *string) (*entities.Publication, error) {
	if !status.IsModerationDecision() {
		return nil, apperrors.NewValidationError(InvalidStatusMessage)
	}

	update := entities.PublicationUpdate{Status: &status}
	if status == entities.StatusApproved {
		cleared := ""
		update.RejectionReason = &cleared
	} else if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		update.RejectionReason = &trimmed
	}

	publication, err := s.storage.UpdatePublication(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if publication == nil {
		return nil, apperrors.NewNotFoundError(PublicationNotFoundMessage)
	}
	return publication, nil
}

// View returns the publication for its detail page and counts the view
func (s *PublicationService) View(ctx context.Context, id int64) (*entities.PublicationWithDetails, error) {
	publication, err := s.storage.GetPublicationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if publication == nil {
		return nil, apperrors.NewNotFoundError(PublicationNotFoundMessage)
	}
	if err := s.storage.IncrementPublicationViews(ctx, id); err != nil {
		return nil, err
	}
	return publication, nil
}

// AddReview records a review of an existing publication. Several reviews by
// the same author are allowed.
func (s *PublicationService) AddReview(ctx context.Context, author *entities.User, publicationID int64, rating int, comment *string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("La note doit être comprise entre 1 et 5")
	}
	publication, err := s.storage.GetPublication(ctx, publicationID)
	if err != nil {
		return nil, err
	}
	if publication == nil {
		return nil, apperrors.NewNotFoundError(PublicationNotFoundMessage)
	}

	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		comment = &trimmed
	}
	return s.storage.CreateReview(ctx, &entities.Review{
		UserID:        author.ID,
		PublicationID: publication.ID,
		Rating:        rating,
		Comment:       comment,
	})
}
