package api

import (
	"net/http"
	"strings"

	"github.com/phrazzld/stock-report-api/internal/api/shared"
	"github.com/phrazzld/stock-report-api/internal/task"
)

// IDsParam is the query parameter carrying a comma-separated list of task ids.
const IDsParam = "sd"

// queryParam returns the trimmed value of a query parameter.
func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// queryIDs parses the task id list from the request.
func queryIDs(r *http.Request) ([]string, error) {
	return task.ParseIDs(r.URL.Query().Get(IDsParam))
}

// HandleAPIError writes the error response for err. The status and message
// are derived from the error; fallback replaces the generic message for
// server errors when set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
