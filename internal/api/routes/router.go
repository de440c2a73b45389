package routes

import (
	"net/http"

	"github.com/citylinker/backend/internal/api/handlers"
	"github.com/citylinker/backend/internal/api/middleware"
	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	auth *middleware.Auth

	authHandler        *handlers.AuthHandler
	publicHandler      *handlers.PublicHandler
	publicationHandler *handlers.PublicationHandler
	adminHandler       *handlers.AdminHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	auth *middleware.Auth,
	authHandler *handlers.AuthHandler,
	publicHandler *handlers.PublicHandler,
	publicationHandler *handlers.PublicationHandler,
	adminHandler *handlers.AdminHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		auth:               auth,
		authHandler:        authHandler,
		publicHandler:      publicHandler,
		publicationHandler: publicationHandler,
		adminHandler:       adminHandler,
		allowedOrigins:     allowedOrigins,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	business := r.auth.RequireRole(entities.RoleBusiness)
	client := r.auth.RequireRole(entities.RoleClient)
	admin := r.auth.RequireRole(entities.RoleAdmin)
	// ownership is checked by the service once the account is loaded
	anyAccount := r.auth.RequireRole()

	// Public endpoints
	r.mux.HandleFunc("GET /api/health", r.publicHandler.Health)
	r.mux.HandleFunc("GET /api/categories", r.publicHandler.ListCategories)
	r.mux.HandleFunc("GET /api/publications", r.publicHandler.ListPublications)
	r.mux.HandleFunc("GET /api/publications/trending", r.publicHandler.TrendingPublications)
	r.mux.HandleFunc("GET /api/publications/search", r.publicHandler.SearchPublications)
	r.mux.HandleFunc("GET /api/publications/{id}", r.publicHandler.GetPublication)
	r.mux.HandleFunc("GET /api/publications/{id}/reviews", r.publicHandler.ListReviews)

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)
	r.mux.HandleFunc("POST /api/auth/logout", r.authHandler.Logout)
	r.mux.HandleFunc("GET /api/auth/me", r.auth.RequireAuth(r.authHandler.Me))
	r.mux.HandleFunc("PATCH /api/auth/profile", r.auth.RequireAuth(r.authHandler.UpdateProfile))

	// Client endpoints
	r.mux.HandleFunc("POST /api/publications/{id}/reviews", client(r.publicationHandler.CreateReview))

	// Business endpoints
	r.mux.HandleFunc("POST /api/publications", business(r.publicationHandler.CreatePublication))
	r.mux.HandleFunc("PATCH /api/publications/{id}", anyAccount(r.publicationHandler.UpdatePublication))
	r.mux.HandleFunc("DELETE /api/publications/{id}", anyAccount(r.publicationHandler.DeletePublication))
	r.mux.HandleFunc("GET /api/business/publications", business(r.publicationHandler.MyPublications))
	r.mux.HandleFunc("GET /api/business/stats", business(r.publicationHandler.BusinessStats))

	// Admin endpoints
	r.mux.HandleFunc("GET /api/admin/stats", admin(r.adminHandler.Stats))
	r.mux.HandleFunc("GET /api/admin/users", admin(r.adminHandler.ListUsers))
	r.mux.HandleFunc("PATCH /api/admin/users/{id}", admin(r.adminHandler.UpdateUser))
	r.mux.HandleFunc("DELETE /api/admin/users/{id}", admin(r.adminHandler.DeleteUser))
	r.mux.HandleFunc("GET /api/admin/publications", admin(r.adminHandler.ListPublications))
	r.mux.HandleFunc("GET /api/admin/publications/pending", admin(r.adminHandler.PendingPublications))
	r.mux.HandleFunc("PATCH /api/admin/publications/{id}/status", admin(r.adminHandler.ModeratePublication))

	// Apply middleware, outermost first. Logging wraps the mux directly so it
	// and the observability middleware see the matched pattern.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = r.auth.Session(handler)
	handler = middleware.Compression(handler)
	handler = middleware.CORS(r.allowedOrigins)(handler)
	handler = middleware.Recovery(handler)

	return handler
}
