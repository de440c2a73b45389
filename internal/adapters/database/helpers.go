package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	apperrors "github.com/citylinker/backend/pkg/errors"
)

// Postgres error codes handled explicitly.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqStringTooLong       = "22001"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// nullString stores nil and "" as NULL
func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// mapWriteError turns constraint violations into typed errors and everything else into an internal error.
// conflict is the user facing message for a unique violation.
func mapWriteError(message, conflict string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return apperrors.NewConflictError(conflict, err)
		case pqForeignKeyViolation:
			return &apperrors.AppError{Type: apperrors.ErrorTypeValidation, Message: "Référence invalide", Err: err}
		case pqStringTooLong:
			return &apperrors.AppError{Type: apperrors.ErrorTypeValidation, Message: "Valeur trop longue", Err: err}
		}
	}
	return apperrors.NewInternalError(message, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in the value
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
