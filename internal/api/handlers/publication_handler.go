package handlers

import (
	"net/http"

	"github.com/citylinker/backend/internal/api/middleware"
	"github.com/citylinker/backend/internal/api/validation"
	"github.com/citylinker/backend/internal/application/services"
	"github.com/citylinker/backend/internal/domain/entities"
)

// PublicationHandler serves the authenticated publication and review routes
type PublicationHandler struct {
	storage      *services.Storage
	publications *services.PublicationService
}

// NewPublicationHandler creates a new publication handler
func NewPublicationHandler(storage *services.Storage, publications *services.PublicationService) *PublicationHandler {
	return &PublicationHandler{storage: storage, publications: publications}
}

type createPublicationRequest struct {
	CategoryID  int64                    `json:"categoryId" validate:"required,gt=0"`
	Type        entities.PublicationType `json:"type" validate:"required,oneof=announcement service article"`
	Title       string                   `json:"title" validate:"required,min=3,max=200"`
	Slug        *string                  `json:"slug" validate:"omitempty,max=200"`
	Description string                   `json:"description" validate:"required,min=10,max=5000"`
	Content     *string                  `json:"content" validate:"omitempty,max=20000"`
	Image       *string                  `json:"image" validate:"omitempty,max=500"`
	Price       *string                  `json:"price" validate:"omitempty,max=50"`
	Location    *string                  `json:"location" validate:"omitempty,max=255"`
}

// updatePublicationRequest is a partial edit. status and rejectionReason are
// only honoured for admins.
type updatePublicationRequest struct {
	Type            *entities.PublicationType   `json:"type" validate:"omitempty,oneof=announcement service article"`
	Title           *string                     `json:"title" validate:"omitempty,min=3,max=200"`
	Slug            *string                     `json:"slug" validate:"omitempty,max=200"`
	Description     *string                     `json:"description" validate:"omitempty,min=10,max=5000"`
	Content         *string                     `json:"content" validate:"omitempty,max=20000"`
	Image           *string                     `json:"image" validate:"omitempty,max=500"`
	Price           *string                     `json:"price" validate:"omitempty,max=50"`
	Location        *string                     `json:"location" validate:"omitempty,max=255"`
	Status          *entities.PublicationStatus `json:"status"`
	RejectionReason *string                     `json:"rejectionReason" validate:"omitempty,max=1000"`
}

type createReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// CreatePublication handles POST /api/publications
func (h *PublicationHandler) CreatePublication(w http.ResponseWriter, r *http.Request) {
	var req createPublicationRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		handleError(w, r, err, "")
		return
	}

	publication, err := h.publications.Create(r.Context(), middleware.UserFromContext(r.Context()), services.CreatePublicationInput{
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Content:     req.Content,
		Image:       req.Image,
		Price:       req.Price,
		Location:    req.Location,
	})
	if err != nil {
		handleError(w, r, err, "Erreur lors de la création de la publication")
		return
	}
	respondWithJSON(w, http.StatusCreated, publication)
}

// UpdatePublication handles PATCH /api/publications/{id}
func (h *PublicationHandler) UpdatePublication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, InvalidIDMessage)
		return
	}

	var req updatePublicationRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		handleError(w, r, err, "")
		return
	}

	publication, err := h.publications.Update(r.Context(), middleware.UserFromContext(r.Context()), id, entities.PublicationUpdate{
		Type:            req.Type,
		Title:           req.Title,
		Slug:            req.Slug,
		Description:     req.Description,
		Content:         req.Content,
		Image:           req.Image,
		Price:           req.Price,
		Location:        req.Location,
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		handleError(w, r, err, "Erreur lors de la mise à jour de la publication")
		return
	}
	respondWithJSON(w, http.StatusOK, publication)
}

// DeletePublication handles DELETE /api/publications/{id}
func (h *PublicationHandler) DeletePublication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, InvalidIDMessage)
		return
	}

	if err := h.publications.Delete(r.Context(), middleware.UserFromContext(r.Context()), id); err != nil {
		handleError(w, r, err, "Erreur lors de la suppression de la publication")
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Publication supprimée"})
}

// CreateReview handles POST /api/publications/{id}/reviews
func (h *PublicationHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, InvalidIDMessage)
		return
	}

	var req createReviewRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		handleError(w, r, err, "")
		return
	}

	review, err := h.publications.AddReview(r.Context(), middleware.UserFromContext(r.Context()), id, req.Rating, req.Comment)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la création de l'avis")
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// MyPublications handles GET /api/business/publications
func (h *PublicationHandler) MyPublications(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	publications, err := h.storage.GetPublicationsByUser(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des publications")
		return
	}
	respondWithJSON(w, http.StatusOK, publications)
}

// BusinessStats handles GET /api/business/stats
func (h *PublicationHandler) BusinessStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	stats, err := h.storage.GetBusinessStats(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des statistiques")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
