package handlers

import (
	"net/http"
	"time"

	"github.com/citylinker/backend/internal/api/middleware"
	"github.com/citylinker/backend/internal/api/validation"
	"github.com/citylinker/backend/internal/application/services"
	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/infrastructure/observability"
)

// IncompleteCredentialsMessage answers a login body that is not an email and a password
const IncompleteCredentialsMessage = "Données incomplètes. Vérifiez votre email et mot de passe."

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles registration, login and the caller's own account
type AuthHandler struct {
	auth     *services.AuthService
	sessions *services.SessionService
	cookie   CookieConfig
	metrics  *observability.Metrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService, sessions *services.SessionService, cookie CookieConfig, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookie: cookie, metrics: metrics}
}

type registerRequest struct {
	Email     string        `json:"email" validate:"required,email,max=255"`
	Password  string        `json:"password" validate:"required,min=6,max=72"`
	FirstName string        `json:"firstName" validate:"required,min=2,max=100"`
	LastName  string        `json:"lastName" validate:"required,min=2,max=100"`
	Role      entities.Role `json:"role" validate:"omitempty,oneof=client business"`
	Phone     *string       `json:"phone" validate:"omitempty,max=20"`

	BusinessName        *string `json:"businessName" validate:"omitempty,max=200"`
	BusinessDescription *string `json:"businessDescription" validate:"omitempty,max=2000"`
	BusinessAddress     *string `json:"businessAddress" validate:"omitempty,max=300"`
	BusinessPhone       *string `json:"businessPhone" validate:"omitempty,max=20"`
	BusinessWebsite     *string `json:"businessWebsite" validate:"omitempty,max=255"`
	BusinessImage       *string `json:"businessImage" validate:"omitempty,max=500"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// profileRequest is everything a user may change on their own account
type profileRequest struct {
	FirstName           *string `json:"firstName" validate:"omitempty,min=2,max=100"`
	LastName            *string `json:"lastName" validate:"omitempty,min=2,max=100"`
	Phone               *string `json:"phone" validate:"omitempty,max=20"`
	BusinessName        *string `json:"businessName" validate:"omitempty,max=200"`
	BusinessDescription *string `json:"businessDescription" validate:"omitempty,max=2000"`
	BusinessAddress     *string `json:"businessAddress" validate:"omitempty,max=300"`
	BusinessPhone       *string `json:"businessPhone" validate:"omitempty,max=20"`
	BusinessWebsite     *string `json:"businessWebsite" validate:"omitempty,max=255"`
	BusinessImage       *string `json:"businessImage" validate:"omitempty,max=500"`
}

func (p profileRequest) toUpdate() entities.UserProfileUpdate {
	return entities.UserProfileUpdate{
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		Phone:               p.Phone,
		BusinessName:        p.BusinessName,
		BusinessDescription: p.BusinessDescription,
		BusinessAddress:     p.BusinessAddress,
		BusinessPhone:       p.BusinessPhone,
		BusinessWebsite:     p.BusinessWebsite,
		BusinessImage:       p.BusinessImage,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		observability.RecordAuthAttempt(r.Context(), h.metrics, "register", "invalid")
		handleError(w, r, err, "")
		return
	}
	if req.Role == "" {
		req.Role = entities.RoleClient
	}

	user, err := h.auth.Register(r.Context(), services.RegisterInput{
		Email:               req.Email,
		Password:            req.Password,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Role:                req.Role,
		Phone:               req.Phone,
		BusinessName:        req.BusinessName,
		BusinessDescription: req.BusinessDescription,
		BusinessAddress:     req.BusinessAddress,
		BusinessPhone:       req.BusinessPhone,
		BusinessWebsite:     req.BusinessWebsite,
		BusinessImage:       req.BusinessImage,
	})
	if err != nil {
		observability.RecordAuthAttempt(r.Context(), h.metrics, "register", "rejected")
		handleError(w, r, err, "")
		return
	}

	if err := h.startSession(w, r, user.ID); err != nil {
		handleError(w, r, err, "")
		return
	}
	observability.RecordAuthAttempt(r.Context(), h.metrics, "register", "success")
	respondWithJSON(w, http.StatusCreated, userResponse{User: user})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		observability.RecordAuthAttempt(r.Context(), h.metrics, "login", "invalid")
		respondWithError(w, http.StatusBadRequest, IncompleteCredentialsMessage)
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		observability.RecordAuthAttempt(r.Context(), h.metrics, "login", "rejected")
		handleError(w, r, err, "")
		return
	}

	if err := h.startSession(w, r, user.ID); err != nil {
		handleError(w, r, err, "")
		return
	}
	observability.RecordAuthAttempt(r.Context(), h.metrics, "login", "success")
	respondWithJSON(w, http.StatusOK, userResponse{User: user})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(r.Context(), middleware.SessionTokenFromContext(r.Context())); err != nil {
		handleError(w, r, err, "Erreur lors de la déconnexion")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Déconnecté avec succès"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, userResponse{User: user})
}

// UpdateProfile handles PATCH /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		handleError(w, r, err, "")
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	user, err := h.auth.UpdateProfile(r.Context(), userID, req.toUpdate())
	if err != nil {
		handleError(w, r, err, "Erreur lors de la mise à jour du profil")
		return
	}
	respondWithJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	session, err := h.sessions.Start(r.Context(), userID)
	if err != nil {
		return err
	}

	// a previous session on this client is replaced
	if previous := middleware.SessionTokenFromContext(r.Context()); previous != "" {
		if err := h.sessions.End(r.Context(), previous); err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("Failed to end previous session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
