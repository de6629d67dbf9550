// Package middleware provides cross-cutting concerns for the resolution
// engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-quorum/internal/ports"
)

// Metric names understood by PrometheusMetrics. Names not listed here fall
// through to the generic operation counter or system gauge.
const (
	MetricRoundsResolved = "rounds_resolved_total"
	MetricRoundWins      = "round_wins_total"
	MetricCacheLookups   = "cache_lookups_total"
	MetricClusterSize    = "cluster_size"
	MetricMaxMatches     = "max_matches"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It tracks how many rounds are resolved, who wins them, how
// large the winning clusters are and how long resolution takes.
type PrometheusMetrics struct {
	roundsResolved   *prometheus.CounterVec
	roundWins        *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	clusterSize      *prometheus.HistogramVec
	executionLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance whose metrics are
// registered with reg. A nil reg uses the default Prometheus registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		roundsResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quorum_" + MetricRoundsResolved,
				Help: "Total number of rounds resolved, by outcome.",
			},
			[]string{"status"},
		),
		roundWins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quorum_" + MetricRoundWins,
				Help: "Total number of rounds won or shared, by team.",
			},
			[]string{"team"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quorum_" + MetricCacheLookups,
				Help: "Result cache lookups, by result.",
			},
			[]string{"result"},
		),
		clusterSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quorum_" + MetricClusterSize,
				Help:    "Size of every qualifying answer cluster.",
				Buckets: prometheus.LinearBuckets(2, 1, 9),
			},
			[]string{"team"},
		),
		executionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quorum_operation_duration_seconds",
				Help:    "Execution time of resolution operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quorum_operations_total",
				Help: "Total number of other engine events.",
			},
			[]string{"operation", "status"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quorum_state",
				Help: "Most recent values reported by the engine.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	_ map[string]string,
) {
	pm.executionLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricRoundsResolved:
		pm.roundsResolved.WithLabelValues(labelOr(labels, "status", "unknown")).Add(value)
	case MetricRoundWins:
		pm.roundWins.WithLabelValues(labelOr(labels, "team", "unknown")).Add(value)
	case MetricCacheLookups:
		pm.cacheLookups.WithLabelValues(labelOr(labels, "result", "unknown")).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, labelOr(labels, "status", "success")).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, _ map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricClusterSize:
		pm.clusterSize.WithLabelValues(labelOr(labels, "team", "unknown")).Observe(value)
	default:
		pm.executionLatency.WithLabelValues(metric).Observe(value)
	}
}

// labelOr returns labels[key], or fallback when the label is missing or empty.
func labelOr(labels map[string]string, key, fallback string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return fallback
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
