package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/stock-report-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	TraceMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Len(t, seen, 32)
	assert.Equal(t, seen, w.Header().Get(TraceIDHeader))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
