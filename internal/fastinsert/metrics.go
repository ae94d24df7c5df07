package fastinsert

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const MetricsPrefix = "fastinsert_"

type Metrics struct {
	rowsInserted   *prometheus.CounterVec
	rowsExisting   *prometheus.CounterVec
	rowsDuplicate  *prometheus.CounterVec
	groupsExecuted *prometheus.CounterVec
	groupsFailed   *prometheus.CounterVec
	groupDuration  *prometheus.HistogramVec
}

// NewMetrics creates the inserter's metrics and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		rowsInserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "rows_inserted",
				Help: "Number of rows sent to the database in INSERT statements",
			},
			[]string{"table"},
		),
		rowsExisting: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "rows_existing",
				Help: "Number of rows skipped because they already existed",
			},
			[]string{"table"},
		),
		rowsDuplicate: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "rows_duplicate",
				Help: "Number of rows dropped because they repeated an earlier row of the same request",
			},
			[]string{"table"},
		),
		groupsExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "groups_executed",
				Help: "Number of row groups processed successfully",
			},
			[]string{"table"},
		),
		groupsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "groups_failed",
				Help: "Number of row groups that failed",
			},
			[]string{"table"},
		),
		groupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricsPrefix + "group_duration_seconds",
				Help:    "Time taken to check and insert one row group",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"table"},
		),
	}
	registerer.MustRegister(
		m.rowsInserted,
		m.rowsExisting,
		m.rowsDuplicate,
		m.groupsExecuted,
		m.groupsFailed,
		m.groupDuration,
	)
	return m
}

func (m *Metrics) RecordDuplicates(table string, n int) {
	if m == nil {
		return
	}
	m.rowsDuplicate.WithLabelValues(table).Add(float64(n))
}

func (m *Metrics) RecordGroup(table string, inserted int, existing int, duration time.Duration) {
	if m == nil {
		return
	}
	m.rowsInserted.WithLabelValues(table).Add(float64(inserted))
	m.rowsExisting.WithLabelValues(table).Add(float64(existing))
	m.groupsExecuted.WithLabelValues(table).Inc()
	m.groupDuration.WithLabelValues(table).Observe(duration.Seconds())
}

func (m *Metrics) RecordGroupFailure(table string) {
	if m == nil {
		return
	}
	m.groupsFailed.WithLabelValues(table).Inc()
}
