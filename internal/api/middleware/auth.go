package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/infrastructure/observability"
)

// Messages returned by the guards
const (
	UnauthenticatedMessage = "Non authentifié"
	ForbiddenMessage       = "Accès non autorisé"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	userKey   contextKey = "user"
	tokenKey  contextKey = "session_token"
)

// SessionResolver maps a session token to a user id, 0 when anonymous
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// UserLoader loads the current user, nil when the account no longer exists
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*entities.User, error)
}

// Auth resolves the session cookie and guards routes by authentication and role
type Auth struct {
	sessions   SessionResolver
	users      UserLoader
	cookieName string
}

// NewAuth creates the session and guard middleware
func NewAuth(sessions SessionResolver, users UserLoader, cookieName string) *Auth {
	return &Auth{sessions: sessions, users: users, cookieName: cookieName}
}

// Session puts the caller's identity on the request context. Unknown or
// expired tokens, and session store failures, leave the request anonymous.
func (a *Auth) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(a.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), tokenKey, cookie.Value)
		userID, err := a.sessions.Resolve(ctx, cookie.Value)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to resolve session")
		}
		if userID != 0 {
			ctx = WithUserID(ctx, userID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests with 401
func (a *Auth) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			writeMessage(w, http.StatusUnauthorized, UnauthenticatedMessage)
			return
		}
		next(w, r)
	}
}

// RequireRole loads the user fresh on every request and rejects it with 403
// when the account is gone or its role is not listed. With no roles any
// existing account passes. The loaded user is available through UserFromContext.
func (a *Auth) RequireRole(roles ...entities.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := UserIDFromContext(r.Context())
			user, err := a.users.GetUser(r.Context(), userID)
			if err != nil {
				observability.LoggerFromContext(r.Context()).Error().Err(err).Int64("user_id", userID).Msg("Failed to load user")
				writeMessage(w, http.StatusInternalServerError, InternalErrorMessage)
				return
			}
			if user == nil || (len(roles) > 0 && !slices.Contains(roles, user.Role)) {
				writeMessage(w, http.StatusForbidden, ForbiddenMessage)
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// UserIDFromContext returns the authenticated user id
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id != 0
}

// UserFromContext returns the user loaded by RequireRole
func UserFromContext(ctx context.Context) *entities.User {
	user, _ := ctx.Value(userKey).(*entities.User)
	return user
}

// SessionTokenFromContext returns the raw session token sent by the client
func SessionTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithUserID returns a context carrying an authenticated user id
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
