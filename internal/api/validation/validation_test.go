package validation_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citylinker/backend/internal/api/validation"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

type signup struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	FirstName string  `json:"firstName" validate:"required,min=2"`
	Role      string  `json:"role" validate:"required,oneof=client business"`
	Rating    int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"valid", `{"email":"a@b.cd","password":"secret","firstName":"Jo","role":"client"}`, ""},
		{"empty body", ``, validation.InvalidBodyMessage},
		{"not an object", `[1,2]`, validation.InvalidBodyMessage},
		{"wrong type", `{"email":42}`, "Le champ email est invalide"},
		{"missing email", `{"password":"secret","firstName":"Jo","role":"client"}`, "Le champ email est requis"},
		{"bad email", `{"email":"nope","password":"secret","firstName":"Jo","role":"client"}`, "Adresse email invalide"},
		{"short password", `{"email":"a@b.cd","password":"123","firstName":"Jo","role":"client"}`, "Le champ password doit contenir au moins 6 caractères"},
		{"bad role", `{"email":"a@b.cd","password":"secret","firstName":"Jo","role":"admin"}`, "Le champ role doit valoir l'une des valeurs : client, business"},
		{"rating too high", `{"email":"a@b.cd","password":"secret","firstName":"Jo","role":"client","rating":6}`, "Le champ rating doit être inférieur ou égal à 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var dst signup
			err := validation.DecodeJSON(req, &dst)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, "a@b.cd", dst.Email)
				return
			}
			appErr, ok := apperrors.As(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestStruct_IgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.cd","password":"secret","firstName":"Jo","role":"business","isAdmin":true}`))
	var dst signup
	require.NoError(t, validation.DecodeJSON(req, &dst))
	assert.Equal(t, "business", dst.Role)
}
