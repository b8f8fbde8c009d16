package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for decision persistence.
type Metrics struct {
	// Append outcomes: primary, fallback, failed
	Appends *prometheus.CounterVec

	// Breaker transitions: opened, closed
	BreakerTransitions *prometheus.CounterVec

	// Decisions currently waiting in the fallback queue
	QueueDepth prometheus.Gauge

	// Reconciler drain outcomes: drained, retry, corrupt
	DrainOutcomes *prometheus.CounterVec
}

// New creates a Metrics instance with all decision log metrics registered.
func New() *Metrics {
	return &Metrics{
		Appends: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_decision_log_appends_total",
			Help: "Decision append outcomes by destination",
		}, []string{"outcome"}),

		BreakerTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_decision_log_breaker_transitions_total",
			Help: "Primary store circuit breaker transitions",
		}, []string{"transition"}),

		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "warden_decision_log_queue_depth",
			Help: "Decisions waiting in the local fallback queue",
		}),

		DrainOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_decision_log_drains_total",
			Help: "Reconciler drain outcomes",
		}, []string{"outcome"}),
	}
}

// RecordAppend counts one append by destination outcome.
func (m *Metrics) RecordAppend(outcome string) {
	if m != nil {
		m.Appends.WithLabelValues(outcome).Inc()
	}
}

// RecordBreakerTransition counts a breaker state change.
func (m *Metrics) RecordBreakerTransition(transition string) {
	if m != nil {
		m.BreakerTransitions.WithLabelValues(transition).Inc()
	}
}

// SetQueueDepth records the current fallback queue depth.
func (m *Metrics) SetQueueDepth(depth int) {
	if m != nil {
		m.QueueDepth.Set(float64(depth))
	}
}

// RecordDrain counts one reconciler drain outcome.
func (m *Metrics) RecordDrain(outcome string) {
	if m != nil {
		m.DrainOutcomes.WithLabelValues(outcome).Inc()
	}
}
