package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one load run.
type Metrics struct {
	FilesRead      prometheus.Counter
	RowsRead       prometheus.Counter
	RowsDropped    prometheus.Counter
	RecordsBuilt   prometheus.Counter
	RecordsLoaded  *prometheus.CounterVec // labels: sink={file,kafka}
	FieldFallbacks *prometheus.CounterVec // labels: field={city,province_state}

	RunDuration prometheus.Histogram
	LastSuccess prometheus.Gauge
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "case_etl",
			Name:      "files_read_total",
			Help:      "Daily report CSV files read.",
		}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "case_etl",
			Name:      "rows_read_total",
			Help:      "Rows read across all daily reports.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "case_etl",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped because no location could be resolved.",
		}),
		RecordsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "case_etl",
			Name:      "records_built_total",
			Help:      "Cleaned records in the final dataset.",
		}),
		RecordsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "case_etl",
			Name:      "records_loaded_total",
			Help:      "Cleaned records written, by sink.",
		}, []string{"sink"}),
		FieldFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "case_etl",
			Name:      "field_fallbacks_total",
			Help:      "Present field values whose transform failed and fell back to a default or the original value. Missing cells are not counted.",
		}, []string{"field"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "case_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-clean-load run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "case_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FilesRead,
		m.RowsRead,
		m.RowsDropped,
		m.RecordsBuilt,
		m.RecordsLoaded,
		m.FieldFallbacks,
		m.RunDuration,
		m.LastSuccess,
	}
}

// Push sends the run metrics to a Prometheus Pushgateway under job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	pusher := push.New(url, job)
	for _, c := range m.collectors() {
		pusher = pusher.Collector(c)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
