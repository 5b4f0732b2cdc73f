package task

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/phrazzld/stock-report-api/internal/analysis"
	"github.com/phrazzld/stock-report-api/internal/domain"
	"github.com/phrazzld/stock-report-api/internal/events"
	"github.com/phrazzld/stock-report-api/internal/redact"
	"github.com/phrazzld/stock-report-api/internal/store"
)

// ErrAnalysisPanic is recorded when an analysis panics instead of returning.
var ErrAnalysisPanic = errors.New("analysis panicked")

// Dispatcher runs each submitted task on its own goroutine. The goroutines
// use a context owned by the dispatcher, so an analysis outlives the request
// that submitted it. There is no concurrency ceiling and no per-task
// cancellation.
type Dispatcher struct {
	registry  *Registry
	analyzer  analysis.Analyzer
	artifacts store.ArtifactStore
	emitter   events.EventEmitter
	logger    *slog.Logger

	ctx      context.Context
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

// NewDispatcher creates a dispatcher. emitter may be nil, in which case no
// lifecycle events are published.
func NewDispatcher(
	registry *Registry,
	analyzer analysis.Analyzer,
	artifacts store.ArtifactStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		analyzer:  analyzer,
		artifacts: artifacts,
		emitter:   emitter,
		logger:    logger.With("component", "task_dispatcher"),
		ctx:       context.Background(),
	}
}

// Dispatch starts the analysis for t in the background and returns
// immediately.
func (d *Dispatcher) Dispatch(t domain.Task) {
	d.wg.Add(1)
	d.inFlight.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.inFlight.Add(-1)
		d.run(t)
	}()
}

// InFlight returns the number of analyses currently executing.
func (d *Dispatcher) InFlight() int64 {
	return d.inFlight.Load()
}

// Wait blocks until every dispatched analysis has finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %d running analyses: %w", d.InFlight(), ctx.Err())
	}
}

func (d *Dispatcher) run(t domain.Task) {
	log := d.logger.With("task_id", t.ID, "name", t.Name, "code", t.Code)

	if !d.transition(log, t.ID, domain.TaskStatusRunning, "") {
		return
	}
	log.Info("analysis started")

	data, stack, err := d.analyze(t)
	if err != nil {
		log.Error("analysis failed",
			"error", redact.Error(err),
			"stack", string(stack))
		d.transition(log, t.ID, domain.TaskStatusFailed, redact.Message(err.Error()))
		return
	}

	if err := d.artifacts.Save(t.ID, data); err != nil {
		log.Error("failed to save report artifact",
			"error", redact.Error(err),
			"artifact", d.artifacts.Name(t.ID))
		d.transition(log, t.ID, domain.TaskStatusFailed, redact.Message(fmt.Sprintf("failed to save report: %v", err)))
		return
	}

	if !d.transition(log, t.ID, domain.TaskStatusCompleted, "") {
		// The task was deleted while it ran; do not leave its report behind.
		removeArtifact(d.artifacts, log, t.ID)
		return
	}
	log.Info("analysis completed",
		"artifact", d.artifacts.Name(t.ID),
		"bytes", len(data))
}

// analyze runs the analyzer into a buffer. A panic is recovered and returned
// as an error together with the panicking goroutine's stack; for ordinary
// errors the stack of the dispatch goroutine is returned.
func (d *Dispatcher) analyze(t domain.Task) (data []byte, stack []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack = debug.Stack()
			data = nil
			err = fmt.Errorf("%w: %v", ErrAnalysisPanic, r)
		}
	}()

	var buf bytes.Buffer
	req := analysis.Request{Name: t.Name, Code: t.Code}
	if err := d.analyzer.Analyze(d.ctx, req, &buf); err != nil {
		return nil, debug.Stack(), err
	}
	return buf.Bytes(), nil, nil
}

// transition commits a status change and publishes it. It reports false when
// the change could not be applied, which during normal operation means the
// task was deleted concurrently.
func (d *Dispatcher) transition(log *slog.Logger, id string, to domain.TaskStatus, errMsg string) bool {
	from, err := d.registry.SetStatus(id, to, errMsg)
	if err != nil {
		log.Warn("dropping status update",
			"to_status", to,
			"error", err)
		return false
	}

	if to == domain.TaskStatusFailed && errMsg == "" {
		errMsg = domain.DefaultFailureMessage
	}
	emit(d.ctx, d.emitter, log, events.NewStatusChangedEvent(id, from, to, errMsg))
	return true
}

func emit(ctx context.Context, emitter events.EventEmitter, log *slog.Logger, event *events.StatusChangedEvent) {
	if emitter == nil {
		return
	}
	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to publish task status event",
			"to_status", event.To,
			"error", err)
	}
}
