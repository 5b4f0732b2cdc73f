package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/stock-report-api/internal/domain"
)

// StatusChangedEvent records a status transition that has been committed to
// the task registry. A freshly submitted task produces an event with an empty
// From status.
type StatusChangedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// TaskID is the tracking id of the task that changed
	TaskID string `json:"task_id"`

	// From is the status before the transition
	From domain.TaskStatus `json:"from,omitempty"`

	// To is the status after the transition
	To domain.TaskStatus `json:"to"`

	// Error carries the failure message when To is failed
	Error string `json:"error,omitempty"`

	// OccurredAt is the time the transition was committed
	OccurredAt time.Time `json:"occurred_at"`
}

// NewStatusChangedEvent creates a StatusChangedEvent for the given transition.
func NewStatusChangedEvent(taskID string, from, to domain.TaskStatus, errMsg string) *StatusChangedEvent {
	return &StatusChangedEvent{
		ID:         uuid.New(),
		TaskID:     taskID,
		From:       from,
		To:         to,
		Error:      errMsg,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *StatusChangedEvent) error
}

// EventHandlerFunc adapts an ordinary function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *StatusChangedEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *StatusChangedEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the dispatcher to publish transitions without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *StatusChangedEvent) error
}
