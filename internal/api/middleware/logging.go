package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/citylinker/backend/internal/infrastructure/observability"
)

// LoggingMiddleware logs one line per request. It must wrap the ServeMux
// directly so the matched route pattern is visible once the mux returns.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger := observability.LoggerFromContext(r.Context())
		var event *zerolog.Event
		switch {
		case rw.statusCode >= http.StatusInternalServerError:
			event = logger.Error()
		case rw.statusCode >= http.StatusBadRequest:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event = event.
			Str("method", r.Method).
			Str("route", routeOf(r)).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", time.Since(start))
		if userID, ok := UserIDFromContext(r.Context()); ok {
			event = event.Int64("user_id", userID)
		}
		event.Msg("HTTP request")
	})
}

// routeOf returns the matched pattern, falling back to the raw path for unmatched requests
func routeOf(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.URL.Path
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.wroteHeader {
		rw.statusCode = statusCode
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
