// Package events publishes persisted access decisions for downstream
// consumers such as door actuators and analytics pipelines. Publishing
// is best-effort from the decision path: a broker outage is logged and
// counted, never surfaced to the caller, and never blocks a decision.
package events

import (
	"context"

	"warden/internal/domain"
)

// Publisher emits decision events.
type Publisher interface {
	// Publish emits one decision event. Implementations log and count
	// failures instead of returning them.
	Publish(ctx context.Context, decision domain.AccessDecision)
	// Close flushes buffered events and releases underlying resources.
	Close()
}

// Noop discards all events. Serves deployments without a broker and
// tests that do not assert on publishing.
type Noop struct{}

func (Noop) Publish(context.Context, domain.AccessDecision) {}

func (Noop) Close() {}
