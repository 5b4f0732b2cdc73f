package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/phrazzld/stock-report-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	mu           sync.Mutex
	LastEvent    *StatusChangedEvent
	HandlerError error
	HandledCount int
}

// HandleEvent records the event and returns the configured error
func (m *MockEventHandler) HandleEvent(ctx context.Context, event *StatusChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastEvent = event
	m.HandledCount++
	return m.HandlerError
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event := NewStatusChangedEvent("abc", domain.TaskStatusPending, domain.TaskStatusRunning, "")

		err := emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := NewStatusChangedEvent("abc", domain.TaskStatusRunning, domain.TaskStatusCompleted, "")
		err := emitter.EmitEvent(context.Background(), event)
		require.NoError(t, err)

		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
		assert.Equal(t, event, handler2.LastEvent)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		successHandler := &MockEventHandler{}
		failingHandler := &MockEventHandler{HandlerError: errors.New("handler error")}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		event := NewStatusChangedEvent("abc", domain.TaskStatusRunning, domain.TaskStatusFailed, "boom")
		err := emitter.EmitEvent(context.Background(), event)

		assert.EqualError(t, err, "handler error")
		assert.Equal(t, 1, successHandler.HandledCount, "later handlers still run")
		assert.Equal(t, 1, failingHandler.HandledCount)
	})

	t.Run("handler func adapter", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		var got []domain.TaskStatus
		emitter.RegisterHandler(EventHandlerFunc(func(ctx context.Context, e *StatusChangedEvent) error {
			got = append(got, e.To)
			return nil
		}))

		require.NoError(t, emitter.EmitEvent(context.Background(),
			NewStatusChangedEvent("abc", "", domain.TaskStatusPending, "")))
		require.NoError(t, emitter.EmitEvent(context.Background(),
			NewStatusChangedEvent("abc", domain.TaskStatusPending, domain.TaskStatusRunning, "")))

		assert.Equal(t, []domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusRunning}, got)
	})
}
