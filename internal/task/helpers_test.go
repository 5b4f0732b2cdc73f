package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/stock-report-api/internal/analysis"
	"github.com/phrazzld/stock-report-api/internal/events"
	"github.com/phrazzld/stock-report-api/internal/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// reportAnalyzer writes a tiny HTML document naming the company.
var reportAnalyzer = analysis.AnalyzerFunc(func(_ context.Context, req analysis.Request, w io.Writer) error {
	_, err := fmt.Fprintf(w, "<html>%s (%s)</html>", req.Name, req.Code)
	return err
})

// gatedAnalyzer blocks every analysis until release is closed.
type gatedAnalyzer struct {
	started chan string
	release chan struct{}
	err     error
}

func newGatedAnalyzer() *gatedAnalyzer {
	return &gatedAnalyzer{
		started: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (g *gatedAnalyzer) Analyze(ctx context.Context, req analysis.Request, w io.Writer) error {
	g.started <- req.Code
	<-g.release
	if g.err != nil {
		return g.err
	}
	return reportAnalyzer.Analyze(ctx, req, w)
}

func (g *gatedAnalyzer) waitStarted(t *testing.T) string {
	t.Helper()
	select {
	case code := <-g.started:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("analysis did not start")
		return ""
	}
}

// flakyRemoveStore fails Remove for selected ids with a non-not-exist error.
type flakyRemoveStore struct {
	store.ArtifactStore
	failFor map[string]bool
}

func (s *flakyRemoveStore) Remove(id string) error {
	if s.failFor[id] {
		return errors.New("permission denied")
	}
	return s.ArtifactStore.Remove(id)
}

type testEnv struct {
	registry   *Registry
	dispatcher *Dispatcher
	manager    *Manager
	fs         afero.Fs
	artifacts  store.ArtifactStore
	emitter    *events.InMemoryEventEmitter
}

func newTestEnv(t *testing.T, analyzer analysis.Analyzer) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	return newTestEnvWithStore(t, analyzer, fs, store.NewFileStore(fs, ".html"))
}

func newTestEnvWithStore(t *testing.T, analyzer analysis.Analyzer, fs afero.Fs, artifacts store.ArtifactStore) *testEnv {
	t.Helper()

	logger := discardLogger()
	registry := NewRegistry(logger)
	emitter := events.NewInMemoryEventEmitter(logger)
	dispatcher := NewDispatcher(registry, analyzer, artifacts, emitter, logger)
	manager := NewManager(ManagerConfig{
		Registry:   registry,
		Dispatcher: dispatcher,
		Artifacts:  artifacts,
		Emitter:    emitter,
		Logger:     logger,
	})

	env := &testEnv{
		registry:   registry,
		dispatcher: dispatcher,
		manager:    manager,
		fs:         fs,
		artifacts:  artifacts,
		emitter:    emitter,
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dispatcher.Wait(ctx)
	})
	return env
}

func (e *testEnv) waitIdle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.dispatcher.Wait(ctx))
}

func (e *testEnv) artifactExists(t *testing.T, id string) bool {
	t.Helper()
	exists, err := afero.Exists(e.fs, "/"+id+".html")
	require.NoError(t, err)
	return exists
}
