package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/citylinker/backend/internal/infrastructure/observability"
)

// InternalErrorMessage is the generic body of unexpected failures
const InternalErrorMessage = "Une erreur technique est survenue. Veuillez réessayer plus tard."

// Recovery turns a panic in a handler into a 500 response
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			observability.LoggerFromContext(r.Context()).Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic")
			writeMessage(w, http.StatusInternalServerError, InternalErrorMessage)
		}()

		next.ServeHTTP(w, r)
	})
}
