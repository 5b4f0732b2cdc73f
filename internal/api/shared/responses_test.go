package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/stock-report-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         interface{}
		expectedBody string
	}{
		{"string body", http.StatusOK, "1,-1,0", "\"1,-1,0\"\n"},
		{"object body", http.StatusOK, map[string]int{"n": 1}, "{\"n\":1}\n"},
		{"nil body", http.StatusOK, nil, "null\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/start", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-abc"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid name: required field")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid name: required field", resp.Error)
	assert.Equal(t, "trace-abc", resp.TraceID)
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/start", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "bad")

	assert.JSONEq(t, `{"error":"bad"}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"server error logged at error", http.StatusInternalServerError, "ERROR"},
		{"client error logged at debug", http.StatusBadRequest, "DEBUG"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf, _, cleanup := logger.SetupTestLogger(t, nil)
			defer cleanup()

			req := httptest.NewRequest(http.MethodDelete, "/delete", nil)
			req = req.WithContext(WithTraceID(req.Context(), "trace-xyz"))
			w := httptest.NewRecorder()

			cause := errors.New("remove /srv/public/abc.html: permission denied")
			RespondWithErrorAndLog(w, req, tc.status, "Failed to delete tasks", cause)

			assert.Equal(t, tc.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Failed to delete tasks", resp.Error)
			assert.NotContains(t, w.Body.String(), "permission denied")

			entries := buf.FindEntries("API error response")
			require.Len(t, entries, 1)
			entry := entries[0]
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, "trace-xyz", entry["trace_id"])
			assert.Equal(t, "remove [REDACTED_PATH]: permission denied", entry["error"])
		})
	}
}
