package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phrazzld/stock-report-api/internal/domain"
	"github.com/phrazzld/stock-report-api/internal/events"
	"github.com/phrazzld/stock-report-api/internal/store"
)

// ManagerConfig holds the collaborators of a Manager.
type ManagerConfig struct {
	Registry   *Registry
	Dispatcher *Dispatcher
	Artifacts  store.ArtifactStore
	// Emitter and Metrics are optional.
	Emitter events.EventEmitter
	Metrics *Metrics
	Logger  *slog.Logger
}

// Manager is the entry point for submitting, polling and deleting tasks.
type Manager struct {
	registry   *Registry
	dispatcher *Dispatcher
	artifacts  store.ArtifactStore
	emitter    events.EventEmitter
	metrics    *Metrics
	logger     *slog.Logger
}

// NewManager creates a Manager from cfg.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		registry:   cfg.Registry,
		dispatcher: cfg.Dispatcher,
		artifacts:  cfg.Artifacts,
		emitter:    cfg.Emitter,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger.With("component", "task_manager"),
	}
}

// Submit registers a pending task for the given company and starts its
// analysis in the background. It returns the tracking id without waiting for
// the analysis. Blank inputs are rejected with a validation error.
func (m *Manager) Submit(ctx context.Context, name, code string) (string, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)

	id := NewID()
	t, err := m.registry.Insert(id, name, code)
	if err != nil {
		return "", fmt.Errorf("failed to register task: %w", err)
	}

	log := m.logger.With("task_id", id)
	emit(ctx, m.emitter, log, events.NewStatusChangedEvent(id, "", domain.TaskStatusPending, ""))
	m.dispatcher.Dispatch(t)

	log.Info("task submitted", "name", name, "code", code)
	return id, nil
}

// Query returns one polling code per id, in the order given: 1 for a
// completed task, 0 for a pending or running one, and -1 for a failed task
// or an id the registry does not know. Duplicate ids are resolved
// independently.
func (m *Manager) Query(ctx context.Context, ids []string) ([]int, error) {
	if len(ids) == 0 {
		return nil, domain.ErrEmptyIDList
	}

	codes := make([]int, len(ids))
	for i, id := range ids {
		t, ok := m.registry.Get(id)
		if !ok {
			codes[i] = domain.ResultCodeGone
			continue
		}
		codes[i] = t.ResultCode()
	}
	return codes, nil
}

// Get returns the stored record for id, including any failure message.
func (m *Manager) Get(id string) (domain.Task, bool) {
	return m.registry.Get(id)
}

// Delete removes the record and the report artifact of every id. Ids that are
// unknown, or whose artifact is missing, are skipped without error; a
// failure on one id never prevents the others from being processed. Deleting
// a task that is still running only removes its record: the analysis keeps
// going but its result is discarded.
func (m *Manager) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return domain.ErrEmptyIDList
	}

	removed := 0
	for _, id := range ids {
		log := m.logger.With("task_id", id)

		if t, ok := m.registry.Remove(id); ok {
			removed++
			log.Debug("task record removed", "status", t.Status)
		}
		removeArtifact(m.artifacts, log, id)
	}

	if m.metrics != nil {
		m.metrics.RecordDeleted(removed)
	}
	m.logger.Info("tasks deleted",
		"requested", len(ids),
		"removed", removed)
	return nil
}

// removeArtifact deletes the artifact for id on a best-effort basis.
func removeArtifact(artifacts store.ArtifactStore, log *slog.Logger, id string) {
	err := artifacts.Remove(id)
	switch {
	case err == nil:
		log.Debug("report artifact removed", "artifact", artifacts.Name(id))
	case store.IsNotExist(err), errors.Is(err, store.ErrInvalidArtifactID):
		log.Debug("no report artifact to remove", "artifact", artifacts.Name(id))
	default:
		log.Warn("failed to remove report artifact",
			"artifact", artifacts.Name(id),
			"error", err)
	}
}

// ParseIDs splits the comma-separated id list used by the HTTP interface.
// Surrounding whitespace is trimmed from every element; empty elements are
// kept so the result lines up with the caller's list.
func ParseIDs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, domain.NewValidationError("sd", "is required", domain.ErrEmptyIDList)
	}

	ids := strings.Split(raw, ",")
	for i := range ids {
		ids[i] = strings.TrimSpace(ids[i])
	}
	return ids, nil
}

// FormatCodes joins polling codes with commas, e.g. "1,-1,0".
func FormatCodes(codes []int) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}
