package database

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citylinker/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

var fixedTime = time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

func setupMockDB(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return postgres.NewFromDB(db), mock
}

func strPtr(s string) *string { return &s }

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, "%pizza%", containsPattern("pizza"))
	assert.Equal(t, `%50\%%`, containsPattern("50%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\d%`, containsPattern(`c:\d`))
}

func TestNullString(t *testing.T) {
	assert.False(t, nullString(nil).Valid)
	assert.False(t, nullString(strPtr("")).Valid)
	assert.Equal(t, "Cocody", nullString(strPtr("Cocody")).String)
}

func TestMapWriteError(t *testing.T) {
	err := mapWriteError("insert", "déjà pris", &pq.Error{Code: pqUniqueViolation})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	assert.Equal(t, "déjà pris", appErr.Message)

	err = mapWriteError("insert", "déjà pris", &pq.Error{Code: pqForeignKeyViolation})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	err = mapWriteError("insert", "déjà pris", &pq.Error{Code: pqStringTooLong})
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "Valeur trop longue", appErr.Message)

	err = mapWriteError("insert", "déjà pris", errors.New("connection reset"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}
