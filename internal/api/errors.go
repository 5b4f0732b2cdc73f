package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/stock-report-api/internal/domain"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Only
// rejected caller input is a client error; everything else is a 500.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyIDList),
		errors.As(err, &verrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that does not
// leak internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verrs validator.ValidationErrors
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrEmptyIDList):
		return "At least one task id is required"
	case errors.As(err, &verrs), errors.As(err, &verr):
		return SanitizeValidationError(err)
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validation failure into a short message
// naming the offending parameter, e.g. "Invalid name: required field".
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	default:
		return "validation failed"
	}
}
