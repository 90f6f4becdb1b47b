package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the configuration builder.
type Metrics struct {
	Submissions   *prometheus.CounterVec // labels: outcome={success,missing,error}
	MissingFields *prometheus.CounterVec // labels: field
	BuildDuration prometheus.Histogram
	SchemaFields  prometheus.Gauge
}

// NewMetrics creates and registers all builder metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Submissions,
		m.MissingFields,
		m.BuildDuration,
		m.SchemaFields,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainyday_config",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome.",
		}, []string{"outcome"}),
		MissingFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainyday_config",
			Name:      "missing_fields_total",
			Help:      "Required fields left empty at submission, by field key.",
		}, []string{"field"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainyday_config",
			Name:      "build_duration_seconds",
			Help:      "Time to assemble and serialize one configuration record.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		SchemaFields: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainyday_config",
			Name:      "schema_fields",
			Help:      "Number of field descriptors in the loaded form schema.",
		}),
	}
}
