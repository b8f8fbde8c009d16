// Package identity manages the enrolled identity roster that face
// matching runs against. Identities are soft-deleted so past decisions
// keep a resolvable subject; only active identities appear in match
// snapshots.
package identity

import (
	"context"
	"time"

	"warden/internal/domain"
	id "warden/pkg/domain"
)

// Store persists enrolled identities. Implementations return
// sentinel.ErrNotFound for unknown ids, sentinel.ErrConflict for
// duplicate ids, and hand out deep copies so callers can never mutate
// stored state.
type Store interface {
	Create(ctx context.Context, identity *domain.Identity) error
	Deactivate(ctx context.Context, identityID id.IdentityID, at time.Time) error
	FindByID(ctx context.Context, identityID id.IdentityID) (*domain.Identity, error)

	// ListActiveByEnvironment returns the active roster for one
	// environment, sorted by id.
	ListActiveByEnvironment(ctx context.Context, environmentID id.EnvironmentID) ([]domain.Identity, error)
}
