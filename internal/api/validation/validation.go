// Package validation decodes JSON request bodies and checks them against
// struct tags, reporting the first failure as a French message.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/citylinker/backend/pkg/errors"
)

// InvalidBodyMessage is returned when the body is not a JSON object of the expected shape
const InvalidBodyMessage = "Données invalides"

const maxBodyBytes = 1 << 20

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. Field names in errors are taken from json tags.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		instance = v
	})
	return instance
}

// Struct validates s and returns a validation AppError carrying the first failure
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return apperrors.NewValidationError(message(errs[0]))
	}
	return apperrors.NewValidationError(InvalidBodyMessage)
}

// DecodeJSON reads a JSON body into dst and validates it.
// Unknown fields are ignored, so clients may send more than a route accepts.
func DecodeJSON(r *http.Request, dst any) error {
	if err := decode(r, dst); err != nil {
		return err
	}
	return Struct(dst)
}

func decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError(InvalidBodyMessage)
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperrors.NewValidationError(fmt.Sprintf("Le champ %s est invalide", typeErr.Field))
		}
		return apperrors.NewValidationError(InvalidBodyMessage)
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Le champ %s est requis", field)
	case "email":
		return "Adresse email invalide"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Le champ %s doit contenir au moins %s caractères", field, fe.Param())
		}
		return fmt.Sprintf("Le champ %s doit être supérieur ou égal à %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Le champ %s doit contenir au plus %s caractères", field, fe.Param())
		}
		return fmt.Sprintf("Le champ %s doit être inférieur ou égal à %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("Le champ %s doit valoir l'une des valeurs : %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Le champ %s est invalide", field)
	}
}
