package domain

import "time"

// TaskStatus represents the lifecycle state of an analysis task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// DefaultFailureMessage is stored when a task fails without a usable error text.
const DefaultFailureMessage = "analysis failed"

// transitions lists the statuses each state may move to.
// Terminal states have no entry.
var transitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending: {TaskStatusRunning},
	TaskStatusRunning: {TaskStatusCompleted, TaskStatusFailed},
}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions can happen from s.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// CanTransitionTo reports whether moving from s to next follows
// pending -> running -> {completed, failed}.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Task is the tracking record for one submitted analysis.
// Name and Code are immutable after creation; Status and Error are only
// changed through the task registry.
type Task struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Status    TaskStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTask creates a pending task with the given id and inputs, created at
// now. Returns an error if validation fails.
func NewTask(id, name, code string, now time.Time) (*Task, error) {
	task := &Task{
		ID:        id,
		Name:      name,
		Code:      code,
		Status:    TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == "" {
		return NewValidationError("id", "is required", ErrValidation)
	}
	if t.Name == "" {
		return NewValidationError("name", "is required", ErrEmptyName)
	}
	if t.Code == "" {
		return NewValidationError("code", "is required", ErrEmptyCode)
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", "is not a known task status", ErrValidation)
	}
	if (t.Status == TaskStatusFailed) != (t.Error != "") {
		return NewValidationError("error", "must be set if and only if the task failed", ErrValidation)
	}
	return nil
}

// ResultCode maps the task status to the polling code returned to callers:
// 1 for completed, -1 for failed, 0 while pending or running.
func (t *Task) ResultCode() int {
	switch t.Status {
	case TaskStatusCompleted:
		return ResultCodeCompleted
	case TaskStatusFailed:
		return ResultCodeGone
	default:
		return ResultCodeInProgress
	}
}

// Polling codes returned by status queries.
const (
	ResultCodeGone       = -1
	ResultCodeInProgress = 0
	ResultCodeCompleted  = 1
)
