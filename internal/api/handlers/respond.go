package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/citylinker/backend/internal/api/middleware"
	"github.com/citylinker/backend/internal/infrastructure/observability"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

// InvalidIDMessage is returned for a non-numeric {id} path value
const InvalidIDMessage = "Identifiant invalide"

// messageResponse is the body of every error and of plain acknowledgements
type messageResponse struct {
	Message string `json:"message"`
}

// userResponse wraps a single account, as returned by the auth and admin user routes
type userResponse struct {
	User any `json:"user"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, messageResponse{Message: message})
}

// handleError maps an AppError to its status. Anything unexpected is logged
// with its cause and answered with fallback, keeping internals out of the body.
func handleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
			return
		case apperrors.ErrorTypeForbidden:
			respondWithError(w, http.StatusForbidden, appErr.Message)
			return
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
			return
		case apperrors.ErrorTypeNotImplemented:
			respondWithError(w, http.StatusNotImplemented, appErr.Message)
			return
		}
	}

	if fallback == "" {
		fallback = middleware.InternalErrorMessage
	}
	event := observability.LoggerFromContext(r.Context()).Error().
		Err(err).
		Str("method", r.Method).
		Str("route", r.Pattern)
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		event = event.Int64("user_id", userID)
	}
	event.Msg(fallback)
	respondWithError(w, http.StatusInternalServerError, fallback)
}

// pathID parses the {id} path value
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
