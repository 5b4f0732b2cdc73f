package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/stock-report-api/internal/api/shared"
	"github.com/phrazzld/stock-report-api/internal/task"
)

// TaskService is the part of the task manager the handlers use.
type TaskService interface {
	Submit(ctx context.Context, name, code string) (string, error)
	Query(ctx context.Context, ids []string) ([]int, error)
	Delete(ctx context.Context, ids []string) error
}

// TaskHandler handles the task lifecycle endpoints.
type TaskHandler struct {
	tasks  TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With("component", "task_handler"),
	}
}

// Version handles GET /version.
func (h *TaskHandler) Version(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, Version)
}

// Start handles GET /start?name=...&code=... by submitting a new analysis
// and answering with its tracking id without waiting for it to finish.
func (h *TaskHandler) Start(w http.ResponseWriter, r *http.Request) {
	req := StartRequest{
		Name: queryParam(r, "name"),
		Code: queryParam(r, "code"),
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	id, err := h.tasks.Submit(r.Context(), req.Name, req.Code)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start analysis")
		return
	}

	h.logger.Debug("analysis accepted",
		"task_id", id,
		"trace_id", shared.GetTraceID(r.Context()))
	shared.RespondWithJSON(w, r, http.StatusOK, id)
}

// Process handles GET /process?sd=id1,id2 and answers with one polling code
// per id, e.g. "1,-1,0".
func (h *TaskHandler) Process(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	codes, err := h.tasks.Query(r.Context(), ids)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to query task status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task.FormatCodes(codes))
}

// Delete handles DELETE /delete?sd=id1,id2. Unknown ids are ignored.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.tasks.Delete(r.Context(), ids); err != nil {
		HandleAPIError(w, r, err, "Failed to delete tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteSuccess)
}
