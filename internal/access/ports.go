package access

import (
	"context"

	"warden/internal/domain"
	"warden/internal/policy"
	id "warden/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// PolicyResolver hands out immutable policy snapshots. Satisfied by
// *policy.Registry.
type PolicyResolver interface {
	// Get returns the policy for a specific environment.
	Get(environmentID id.EnvironmentID) (policy.EnvironmentPolicy, error)

	// Active returns the currently active policy, used when the input
	// does not name an environment.
	Active() (policy.EnvironmentPolicy, error)
}

// RosterProvider supplies the active enrolled identities of one
// environment as an immutable snapshot. Satisfied by *identity.Service.
type RosterProvider interface {
	Snapshot(ctx context.Context, environmentID id.EnvironmentID) ([]domain.Identity, error)
}

// DecisionSink durably appends decisions. Satisfied by *decisionlog.Log.
type DecisionSink interface {
	Append(ctx context.Context, decision domain.AccessDecision) (domain.PersistStatus, error)
}

// EventPublisher emits decisions to downstream consumers, best-effort.
// Satisfied by events.Kafka and events.Noop.
type EventPublisher interface {
	Publish(ctx context.Context, decision domain.AccessDecision)
}
