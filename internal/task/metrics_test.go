package task

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/phrazzld/stock-report-api/internal/analysis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_TrackLifecycle(t *testing.T) {
	t.Parallel()

	analyzer := analysis.AnalyzerFunc(func(ctx context.Context, req analysis.Request, w io.Writer) error {
		if req.Code == "bad" {
			return errors.New("boom")
		}
		return reportAnalyzer.Analyze(ctx, req, w)
	})

	env := newTestEnv(t, analyzer)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, env.dispatcher, env.registry)
	env.emitter.RegisterHandler(metrics)
	env.manager.metrics = metrics
	ctx := context.Background()

	ok1, err := env.manager.Submit(ctx, "Acme", "600000")
	require.NoError(t, err)
	_, err = env.manager.Submit(ctx, "Acme", "600001")
	require.NoError(t, err)
	_, err = env.manager.Submit(ctx, "Broken", "bad")
	require.NoError(t, err)
	env.waitIdle(t)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.submitted))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.finished.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.finished.WithLabelValues("failed")))

	require.NoError(t, env.manager.Delete(ctx, []string{ok1, "unknown"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.deleted))

	count, err := testutil.GatherAndCount(reg, "report_tasks_tracked", "report_tasks_in_flight")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_InFlightGauge(t *testing.T) {
	t.Parallel()

	analyzer := newGatedAnalyzer()
	env := newTestEnv(t, analyzer)
	reg := prometheus.NewRegistry()
	NewMetrics(reg, env.dispatcher, env.registry)

	_, err := env.manager.Submit(context.Background(), "Acme", "600000")
	require.NoError(t, err)
	analyzer.waitStarted(t)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		if mf.GetType() == dto.MetricType_GAUGE && len(mf.GetMetric()) == 1 {
			values[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, 1.0, values["report_tasks_in_flight"])
	assert.Equal(t, 1.0, values["report_tasks_tracked"])

	close(analyzer.release)
	env.waitIdle(t)
	assert.Zero(t, env.dispatcher.InFlight())
}
