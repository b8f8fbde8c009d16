package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for roster reads and the snapshot cache.
type Metrics struct {
	// Snapshot cache outcomes: hit, miss, error
	CacheOutcomes *prometheus.CounterVec

	// Roster snapshot fetch latency, cache and store combined
	SnapshotDuration prometheus.Histogram

	// Active identities per fetched snapshot
	SnapshotSize prometheus.Histogram
}

// New creates a Metrics instance with all roster metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_roster_cache_outcomes_total",
			Help: "Roster snapshot cache outcomes",
		}, []string{"outcome"}),

		SnapshotDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "warden_roster_snapshot_duration_seconds",
			Help:    "Duration of roster snapshot fetches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		SnapshotSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "warden_roster_snapshot_identities",
			Help:    "Active identities per fetched roster snapshot",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}

// RecordCacheOutcome counts one cache lookup outcome.
func (m *Metrics) RecordCacheOutcome(outcome string) {
	if m != nil {
		m.CacheOutcomes.WithLabelValues(outcome).Inc()
	}
}

// ObserveSnapshot records one snapshot fetch.
func (m *Metrics) ObserveSnapshot(d time.Duration, identities int) {
	if m != nil {
		m.SnapshotDuration.Observe(d.Seconds())
		m.SnapshotSize.Observe(float64(identities))
	}
}
