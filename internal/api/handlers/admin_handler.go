package handlers

import (
	"net/http"

	"github.com/citylinker/backend/internal/api/middleware"
	"github.com/citylinker/backend/internal/api/validation"
	"github.com/citylinker/backend/internal/application/services"
	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/infrastructure/observability"
)

// AdminHandler serves the moderation and user management routes
type AdminHandler struct {
	storage      *services.Storage
	publications *services.PublicationService
	users        *services.UserService
	metrics      *observability.Metrics
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(storage *services.Storage, publications *services.PublicationService, users *services.UserService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{storage: storage, publications: publications, users: users, metrics: metrics}
}

type moderationRequest struct {
	Status          entities.PublicationStatus `json:"status" validate:"required"`
	RejectionReason *string                    `json:"rejectionReason" validate:"omitempty,max=1000"`
}

// adminUserRequest has no email or password: neither can be changed from the admin panel
type adminUserRequest struct {
	profileRequest
	Role             *entities.Role `json:"role" validate:"omitempty,oneof=client business admin"`
	BusinessVerified *bool          `json:"businessVerified"`
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.storage.GetAdminStats(r.Context())
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des statistiques")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des utilisateurs")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// ListPublications handles GET /api/admin/publications
func (h *AdminHandler) ListPublications(w http.ResponseWriter, r *http.Request) {
	publications, err := h.storage.GetPublications(r.Context(), nil)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des publications")
		return
	}
	respondWithJSON(w, http.StatusOK, publications)
}

// PendingPublications handles GET /api/admin/publications/pending
func (h *AdminHandler) PendingPublications(w http.ResponseWriter, r *http.Request) {
	pending := entities.StatusPending
	publications, err := h.storage.GetPublications(r.Context(), &pending)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des publications")
		return
	}
	respondWithJSON(w, http.StatusOK, publications)
}

// ModeratePublication handles PATCH /api/admin/publications/{id}/status
func (h *AdminHandler) ModeratePublication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, InvalidIDMessage)
		return
	}

	var req moderationRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, services.InvalidStatusMessage)
		return
	}

	publication, err := h.publications.Moderate(r.Context(), id, req.Status, req.RejectionReason)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la mise à jour du statut")
		return
	}

	observability.RecordModeration(r.Context(), h.metrics, string(publication.Status))
	observability.LoggerFromContext(r.Context()).Info().
		Int64("publication_id", publication.ID).
		Str("status", string(publication.Status)).
		Int64("moderator_id", middleware.UserFromContext(r.Context()).ID).
		Msg("Publication moderated")
	respondWithJSON(w, http.StatusOK, publication)
}

// UpdateUser handles PATCH /api/admin/users/{id}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, InvalidIDMessage)
		return
	}

	var req adminUserRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		handleError(w, r, err, "")
		return
	}

	user, err := h.users.Update(r.Context(), id, services.AdminUserUpdate{
		UserProfileUpdate: req.toUpdate(),
		Role:              req.Role,
		BusinessVerified:  req.BusinessVerified,
	})
	if err != nil {
		handleError(w, r, err, "Erreur lors de la mise à jour de l'utilisateur")
		return
	}
	respondWithJSON(w, http.StatusOK, userResponse{User: user})
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, InvalidIDMessage)
		return
	}

	actor := middleware.UserFromContext(r.Context())
	if err := h.users.Delete(r.Context(), actor.ID, id); err != nil {
		handleError(w, r, err, "Erreur lors de la suppression de l'utilisateur")
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Utilisateur supprimé"})
}
