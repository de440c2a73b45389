package errors

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	err := NewInternalError("failed to get user", sql.ErrConnDone)

	assert.Equal(t, "INTERNAL: failed to get user: sql: connection is already closed", err.Error())
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, "NOT_FOUND: Publication non trouvée", NewNotFoundError("Publication non trouvée").Error())
}

func TestAs_FindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("storage: %w", NewForbiddenError("Non autorisé"))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrorTypeForbidden, appErr.Type)
	assert.True(t, IsType(wrapped, ErrorTypeForbidden))
	assert.False(t, IsNotFound(wrapped))

	_, ok = As(sql.ErrNoRows)
	assert.False(t, ok)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("missing")))
	assert.False(t, IsNotFound(NewConflictError("dup", nil)))
	assert.False(t, IsNotFound(nil))
}
