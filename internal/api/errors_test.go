package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/stock-report-api/internal/api/shared"
	"github.com/phrazzld/stock-report-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	validationErr := shared.ValidateRequest(&StartRequest{Code: "600000"})
	require.Error(t, validationErr)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"domain validation", domain.NewValidationError("name", "is required", domain.ErrEmptyName), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("failed to register task: %w", domain.NewValidationError("code", "is required", domain.ErrEmptyCode)), http.StatusBadRequest},
		{"empty id list", domain.ErrEmptyIDList, http.StatusBadRequest},
		{"struct validation", validationErr, http.StatusBadRequest},
		{"task exists", domain.ErrTaskExists, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("open /srv/public/x.html: denied")))
	assert.Equal(t, "At least one task id is required", GetSafeErrorMessage(domain.NewValidationError("sd", "is required", domain.ErrEmptyIDList)))
	assert.Equal(t, "Invalid name: is required", GetSafeErrorMessage(domain.NewValidationError("name", "is required", domain.ErrEmptyName)))
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.ValidateRequest(&StartRequest{Name: "Acme"})
	assert.Equal(t, "Invalid code: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
