package task

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/stock-report-api/internal/domain"
)

// Registry is the process-wide, memory-resident map from task id to task
// record. It is the only shared mutable state in the package; every method
// takes the lock, and reads return copies so callers never observe a record
// mid-update.
type Registry struct {
	mu     sync.RWMutex
	tasks  map[string]*domain.Task
	logger *slog.Logger
	now    func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tasks:  make(map[string]*domain.Task),
		logger: logger.With("component", "task_registry"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Insert stores a new pending task. It fails with domain.ErrTaskExists if id
// is already registered, or with a validation error if an input is empty.
func (r *Registry) Insert(id, name, code string) (domain.Task, error) {
	task, err := domain.NewTask(id, name, code, r.now())
	if err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[id]; exists {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskExists, id)
	}

	r.tasks[id] = task
	return *task, nil
}

// Get returns a copy of the task stored under id.
func (r *Registry) Get(id string) (domain.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return *task, true
}

// SetStatus moves the task to status and returns the status it had before.
//
// errMsg is stored only when status is failed; an empty message is replaced
// by domain.DefaultFailureMessage so the error field is always set for failed
// tasks. A backwards or out-of-terminal transition is a programming error:
// it is logged and rejected with domain.ErrInvalidTransition, leaving the
// record unchanged.
func (r *Registry) SetStatus(id string, status domain.TaskStatus, errMsg string) (domain.TaskStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	from := task.Status
	if !from.CanTransitionTo(status) {
		r.logger.Error("rejected invalid task status transition",
			"task_id", id,
			"from_status", from,
			"to_status", status)
		return from, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, status)
	}

	task.Status = status
	task.Error = ""
	if status == domain.TaskStatusFailed {
		task.Error = errMsg
		if task.Error == "" {
			task.Error = domain.DefaultFailureMessage
		}
	}
	task.UpdatedAt = r.now()
	return from, nil
}

// Remove atomically detaches the task stored under id and returns it.
func (r *Registry) Remove(id string) (domain.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	delete(r.tasks, id)
	return *task, true
}

// Len returns the number of tracked tasks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// EvictTerminalBefore removes every completed or failed task last updated
// before cutoff and returns the removed records. Pending and running tasks
// are never evicted.
func (r *Registry) EvictTerminalBefore(cutoff time.Time) []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []domain.Task
	for id, task := range r.tasks {
		if task.Status.IsTerminal() && task.UpdatedAt.Before(cutoff) {
			evicted = append(evicted, *task)
			delete(r.tasks, id)
		}
	}
	return evicted
}
