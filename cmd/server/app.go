package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/stock-report-api/internal/analysis"
	"github.com/phrazzld/stock-report-api/internal/config"
	"github.com/phrazzld/stock-report-api/internal/events"
	"github.com/phrazzld/stock-report-api/internal/platform/gemini"
	"github.com/phrazzld/stock-report-api/internal/store"
	"github.com/phrazzld/stock-report-api/internal/task"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	artifacts    *store.FileStore
	eventEmitter *events.InMemoryEventEmitter
	metricsReg   *prometheus.Registry

	registry   *task.Registry
	dispatcher *task.Dispatcher
	manager    *task.Manager
	sweeper    *task.Sweeper
	metrics    *task.Metrics
}

// newApplication creates the output directory and the Gemini analyzer, then
// wires the task lifecycle around them.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	artifacts, err := store.NewDirFileStore(cfg.Storage.OutputDir, cfg.Storage.ArtifactExt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	analyzer, err := gemini.NewAnalyzer(ctx, logger.With("component", "llm_analyzer"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM analyzer: %w", err)
	}
	logger.Info("LLM analyzer initialized successfully", "model", cfg.LLM.ModelName)

	return assembleApplication(cfg, logger, analyzer, artifacts)
}

// assembleApplication wires the task registry, dispatcher, manager, metrics
// and retention sweeper around the given analyzer and artifact store, and
// starts the sweeper.
func assembleApplication(
	cfg *config.Config,
	logger *slog.Logger,
	analyzer analysis.Analyzer,
	artifacts *store.FileStore,
) (*application, error) {
	app := &application{
		config:       cfg,
		logger:       logger,
		artifacts:    artifacts,
		eventEmitter: events.NewInMemoryEventEmitter(logger),
		metricsReg:   prometheus.NewRegistry(),
	}
	app.metricsReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app.registry = task.NewRegistry(logger)
	app.dispatcher = task.NewDispatcher(app.registry, analyzer, artifacts, app.eventEmitter, logger)
	app.metrics = task.NewMetrics(app.metricsReg, app.dispatcher, app.registry)
	app.eventEmitter.RegisterHandler(app.metrics)
	app.eventEmitter.RegisterHandler(events.EventHandlerFunc(func(_ context.Context, e *events.StatusChangedEvent) error {
		logger.Debug("task status changed",
			"task_id", e.TaskID,
			"from_status", e.From,
			"to_status", e.To,
			"event_id", e.ID)
		return nil
	}))

	app.manager = task.NewManager(task.ManagerConfig{
		Registry:   app.registry,
		Dispatcher: app.dispatcher,
		Artifacts:  artifacts,
		Emitter:    app.eventEmitter,
		Metrics:    app.metrics,
		Logger:     logger,
	})

	var err error
	app.sweeper, err = task.NewSweeper(app.registry, artifacts, app.metrics, task.SweeperConfig{
		Retention: time.Duration(cfg.Task.RetentionMinutes) * time.Minute,
		Interval:  time.Duration(cfg.Task.SweepIntervalMinutes) * time.Minute,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create retention sweeper: %w", err)
	}
	if err := app.sweeper.Start(); err != nil {
		return nil, fmt.Errorf("failed to start retention sweeper: %w", err)
	}

	return app, nil
}

// cleanup stops the sweeper and waits, bounded by ctx, for running analyses
// to finish so their reports are written before the process exits.
func (app *application) cleanup(ctx context.Context) {
	if app.sweeper != nil {
		if err := app.sweeper.Stop(); err != nil {
			app.logger.Error("Error stopping retention sweeper", "error", err)
		}
	}

	if app.dispatcher != nil {
		if err := app.dispatcher.Wait(ctx); err != nil {
			app.logger.Warn("Abandoning running analyses", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
