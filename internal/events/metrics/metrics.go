package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for decision event publishing.
type Metrics struct {
	// Publish outcomes: published, failed
	Publishes *prometheus.CounterVec
}

// New creates a Metrics instance with all event metrics registered.
func New() *Metrics {
	return &Metrics{
		Publishes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_decision_events_total",
			Help: "Decision event publish outcomes",
		}, []string{"outcome"}),
	}
}

// RecordPublish counts one publish outcome.
func (m *Metrics) RecordPublish(outcome string) {
	if m != nil {
		m.Publishes.WithLabelValues(outcome).Inc()
	}
}
