package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"FishCast/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal       *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	compliance      *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a recorder registered with the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fishcast_prediction_runs_total",
				Help: "Total number of prediction runs by species and estimate source",
			},
			[]string{"species", "source"},
		),
		recommendations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fishcast_recommendations_total",
				Help: "Total number of daily recommendations emitted",
			},
			[]string{"species", "recommendation"},
		),
		compliance: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fishcast_compliance_checks_total",
				Help: "Total number of compliance checks by verdict",
			},
			[]string{"verdict"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fishcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fishcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRun records one completed prediction run.
func (r *Recorder) RecordRun(species string, source models.EstimateSource) {
	r.runsTotal.WithLabelValues(species, string(source)).Inc()
}

// RecordRecommendation records a single daily recommendation.
func (r *Recorder) RecordRecommendation(species string, rec models.Recommendation) {
	r.recommendations.WithLabelValues(species, string(rec)).Inc()
}

// RecordCompliance records one compliance verdict.
func (r *Recorder) RecordCompliance(verdict string) {
	r.compliance.WithLabelValues(verdict).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
