package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Collection loading.
	Loads            *prometheus.CounterVec // labels: trigger={startup,manual,schedule}
	LoadDuration     prometheus.Histogram
	IncidentsLoaded  prometheus.Gauge
	ViewComputations prometheus.Counter
	ViewDuration     prometheus.Histogram

	// LLM analysis.
	AIRequests *prometheus.CounterVec   // labels: flow={themes,measures,visual,hazards}, outcome={success,error,skipped}
	AIDuration *prometheus.HistogramVec // labels: flow

	ActiveSessions prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Loads,
		m.LoadDuration,
		m.IncidentsLoaded,
		m.ViewComputations,
		m.ViewDuration,
		m.AIRequests,
		m.AIDuration,
		m.ActiveSessions,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safetyboard",
			Name:      "incident_loads_total",
			Help:      "Incident collection loads by trigger.",
		}, []string{"trigger"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "safetyboard",
			Name:      "incident_load_duration_seconds",
			Help:      "Duration of a full incident collection load.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		IncidentsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "safetyboard",
			Name:      "incidents_loaded",
			Help:      "Number of incidents in the current collection.",
		}),
		ViewComputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safetyboard",
			Name:      "view_computations_total",
			Help:      "Dashboard views computed.",
		}),
		ViewDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "safetyboard",
			Name:      "view_duration_seconds",
			Help:      "Time to filter and aggregate one dashboard view.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		AIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safetyboard",
			Name:      "ai_requests_total",
			Help:      "LLM analysis requests by flow and outcome.",
		}, []string{"flow", "outcome"}),
		AIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "safetyboard",
			Name:      "ai_request_duration_seconds",
			Help:      "LLM analysis request duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"flow"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "safetyboard",
			Name:      "active_sessions",
			Help:      "Filter sessions held in memory.",
		}),
	}
}
