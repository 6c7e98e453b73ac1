package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/utils/response"
)

// ParseAndValidate decodes the body into dest and runs struct validation.
// Validation failures are written as field-level messages and block the
// request; the handler must return when this reports false.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))
		response.Error(w, apperrors.BadRequestError(err.Error()))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
			return false
		}

		response.Error(w, apperrors.ValidationError("invalid input data"))
		return false
	}

	return true

}

// ParseID reads a uuid path parameter.
func ParseID(r *http.Request, name string) (uuid.UUID, error) {

	raw := r.PathValue(name)
	if raw == "" {
		return uuid.Nil, apperrors.BadRequestError(name + " is required")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.BadRequestError("Invalid " + name + " format").WithError(err)
	}

	return id, nil
}
