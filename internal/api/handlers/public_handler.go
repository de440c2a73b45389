package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/citylinker/backend/internal/application/services"
	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/infrastructure/observability"
)

const maxTrendingLimit = 50

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PublicHandler serves the anonymous catalogue routes
type PublicHandler struct {
	storage      *services.Storage
	publications *services.PublicationService
	checks       map[string]Pinger
}

// NewPublicHandler creates a new public handler. checks are pinged by the health route.
func NewPublicHandler(storage *services.Storage, publications *services.PublicationService, checks map[string]Pinger) *PublicHandler {
	return &PublicHandler{storage: storage, publications: publications, checks: checks}
}

// Health handles GET /api/health
func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("component", name).Msg("Health check failed")
			components[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	respondWithJSON(w, status, map[string]interface{}{
		"status":     overall,
		"components": components,
	})
}

// ListCategories handles GET /api/categories
func (h *PublicHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.storage.GetCategories(r.Context())
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des catégories")
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

// ListPublications handles GET /api/publications
func (h *PublicHandler) ListPublications(w http.ResponseWriter, r *http.Request) {
	approved := entities.StatusApproved
	publications, err := h.storage.GetPublications(r.Context(), &approved)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des publications")
		return
	}
	respondWithJSON(w, http.StatusOK, publications)
}

// TrendingPublications handles GET /api/publications/trending
func (h *PublicHandler) TrendingPublications(w http.ResponseWriter, r *http.Request) {
	limit := services.DefaultTrendingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Limite invalide")
			return
		}
		limit = min(n, maxTrendingLimit)
	}

	publications, err := h.storage.GetTrendingPublications(r.Context(), limit)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des tendances")
		return
	}
	respondWithJSON(w, http.StatusOK, publications)
}

// SearchPublications handles GET /api/publications/search?q&type&category
func (h *PublicHandler) SearchPublications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := entities.SearchFilter{Query: strings.TrimSpace(query.Get("q"))}

	if kind := query.Get("type"); kind != "" && kind != "all" {
		filter.Type = entities.PublicationType(kind)
		if !filter.Type.Valid() {
			respondWithError(w, http.StatusBadRequest, "Type de publication invalide")
			return
		}
	}
	if category := query.Get("category"); category != "" && category != "all" {
		id, err := strconv.ParseInt(category, 10, 64)
		if err != nil || id <= 0 {
			respondWithError(w, http.StatusBadRequest, services.InvalidCategoryMessage)
			return
		}
		filter.CategoryID = id
	}

	publications, err := h.storage.SearchPublications(r.Context(), filter)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la recherche")
		return
	}
	respondWithJSON(w, http.StatusOK, publications)
}

// GetPublication handles GET /api/publications/{id}. Each call counts as a view.
func (h *PublicHandler) GetPublication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, InvalidIDMessage)
		return
	}

	publication, err := h.publications.View(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération de la publication")
		return
	}
	respondWithJSON(w, http.StatusOK, publication)
}

// ListReviews handles GET /api/publications/{id}/reviews
func (h *PublicHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, InvalidIDMessage)
		return
	}

	reviews, err := h.storage.GetReviewsByPublication(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "Erreur lors de la récupération des avis")
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}
