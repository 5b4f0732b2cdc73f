package task

import (
	"context"

	"github.com/phrazzld/stock-report-api/internal/domain"
	"github.com/phrazzld/stock-report-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports task lifecycle counters. It is fed by status events
// through HandleEvent and by the manager and sweeper for removals.
type Metrics struct {
	submitted prometheus.Counter
	finished  *prometheus.CounterVec
	deleted   prometheus.Counter
	evicted   prometheus.Counter
}

// NewMetrics registers the task collectors with reg. The in-flight and
// tracked gauges are sampled from the dispatcher and registry at scrape time.
func NewMetrics(reg prometheus.Registerer, dispatcher *Dispatcher, registry *Registry) *Metrics {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "report_tasks_in_flight",
		Help: "Number of analyses currently executing.",
	}, func() float64 { return float64(dispatcher.InFlight()) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "report_tasks_tracked",
		Help: "Number of task records held in the registry.",
	}, func() float64 { return float64(registry.Len()) })

	return &Metrics{
		submitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "report_tasks_submitted_total",
			Help: "Total number of analysis tasks submitted.",
		}),
		finished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "report_tasks_finished_total",
			Help: "Total number of analysis tasks that finished, by final status.",
		}, []string{"status"}),
		deleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "report_tasks_deleted_total",
			Help: "Total number of task records removed by delete requests.",
		}),
		evicted: factory.NewCounter(prometheus.CounterOpts{
			Name: "report_tasks_evicted_total",
			Help: "Total number of finished task records removed by the retention sweep.",
		}),
	}
}

// HandleEvent implements events.EventHandler.
func (m *Metrics) HandleEvent(_ context.Context, event *events.StatusChangedEvent) error {
	switch event.To {
	case domain.TaskStatusPending:
		m.submitted.Inc()
	case domain.TaskStatusCompleted, domain.TaskStatusFailed:
		m.finished.WithLabelValues(string(event.To)).Inc()
	}
	return nil
}

// RecordDeleted adds n removed records to the deletion counter.
func (m *Metrics) RecordDeleted(n int) {
	m.deleted.Add(float64(n))
}

// RecordEvicted adds n evicted records to the eviction counter.
func (m *Metrics) RecordEvicted(n int) {
	m.evicted.Add(float64(n))
}

var _ events.EventHandler = (*Metrics)(nil)
