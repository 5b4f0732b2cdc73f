package task

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/phrazzld/stock-report-api/internal/store"
)

// SweeperConfig controls retention of finished tasks.
type SweeperConfig struct {
	// Retention is how long a completed or failed task is kept after its
	// last status change. Zero or negative disables sweeping.
	Retention time.Duration
	// Interval is how often the sweep runs.
	Interval time.Duration
}

// Sweeper periodically evicts finished tasks older than the retention window
// together with their report artifacts.
type Sweeper struct {
	registry  *Registry
	artifacts store.ArtifactStore
	metrics   *Metrics
	cfg       SweeperConfig
	logger    *slog.Logger
	scheduler gocron.Scheduler
	now       func() time.Time
}

// NewSweeper creates a sweeper. metrics may be nil.
func NewSweeper(
	registry *Registry,
	artifacts store.ArtifactStore,
	metrics *Metrics,
	cfg SweeperConfig,
	logger *slog.Logger,
) (*Sweeper, error) {
	if cfg.Retention > 0 && cfg.Interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", cfg.Interval)
	}

	return &Sweeper{
		registry:  registry,
		artifacts: artifacts,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger.With("component", "task_sweeper"),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Enabled reports whether a retention window is configured.
func (s *Sweeper) Enabled() bool {
	return s.cfg.Retention > 0
}

// Start schedules the periodic sweep. It is a no-op when retention is
// disabled or the sweep is already scheduled.
func (s *Sweeper) Start() error {
	if !s.Enabled() {
		s.logger.Info("task retention disabled, finished tasks are kept until deleted")
		return nil
	}
	if s.scheduler != nil {
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.cfg.Interval),
		gocron.NewTask(func() { s.Sweep() }),
		gocron.WithName("task-retention-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	scheduler.Start()
	s.scheduler = scheduler
	s.logger.Info("task retention sweep scheduled",
		"retention", s.cfg.Retention.String(),
		"interval", s.cfg.Interval.String())
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
// Stopping a sweeper that was never started is a no-op.
func (s *Sweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	scheduler := s.scheduler
	s.scheduler = nil
	if err := scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down sweep scheduler: %w", err)
	}
	return nil
}

// Sweep evicts every finished task whose last status change is older than
// the retention window and returns how many were evicted.
func (s *Sweeper) Sweep() int {
	if !s.Enabled() {
		return 0
	}

	cutoff := s.now().Add(-s.cfg.Retention)
	evicted := s.registry.EvictTerminalBefore(cutoff)
	for _, t := range evicted {
		log := s.logger.With("task_id", t.ID)
		removeArtifact(s.artifacts, log, t.ID)
		log.Debug("expired task evicted", "status", t.Status, "updated_at", t.UpdatedAt)
	}

	if s.metrics != nil {
		s.metrics.RecordEvicted(len(evicted))
	}
	if len(evicted) > 0 {
		s.logger.Info("retention sweep finished",
			"evicted", len(evicted),
			"remaining", s.registry.Len())
	}
	return len(evicted)
}
