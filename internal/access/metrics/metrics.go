package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the evaluation pipeline.
type Metrics struct {
	// Decisions by environment and outcome (granted, denied)
	Decisions *prometheus.CounterVec

	// Denials by environment and reason
	Denials *prometheus.CounterVec

	// End-to-end evaluation latency
	EvaluateDuration *prometheus.HistogramVec

	// Inputs rejected before any decision
	Rejected prometheus.Counter
}

// New creates a Metrics instance with all evaluation metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_access_decisions_total",
			Help: "Access decisions by environment and outcome",
		}, []string{"environment", "outcome"}),

		Denials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_access_denials_total",
			Help: "Denied decisions by environment and reason",
		}, []string{"environment", "reason"}),

		EvaluateDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warden_access_evaluate_duration_seconds",
			Help:    "Evaluation pipeline latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"environment"}),

		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "warden_access_rejected_inputs_total",
			Help: "Detection inputs rejected before evaluation",
		}),
	}
}

// RecordDecision counts one completed decision.
func (m *Metrics) RecordDecision(environment string, granted bool, reason string) {
	if m == nil {
		return
	}
	outcome := "denied"
	if granted {
		outcome = "granted"
	}
	m.Decisions.WithLabelValues(environment, outcome).Inc()
	if !granted {
		m.Denials.WithLabelValues(environment, reason).Inc()
	}
}

// ObserveEvaluate records the evaluation latency for one request.
func (m *Metrics) ObserveEvaluate(environment string, d time.Duration) {
	if m != nil {
		m.EvaluateDuration.WithLabelValues(environment).Observe(d.Seconds())
	}
}

// RecordRejected counts one input rejected before evaluation.
func (m *Metrics) RecordRejected() {
	if m != nil {
		m.Rejected.Inc()
	}
}
