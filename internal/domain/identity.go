package domain

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Identity is one enrolled person. Disabled identities are excluded from
// matching but retained for audit. Enrollment and updates come from the
// management surface; the decision core reads identities only through
// immutable roster snapshots.
type Identity struct {
	ID            id.IdentityID
	EnvironmentID id.EnvironmentID
	DisplayName   string
	Role          string
	Embedding     Embedding
	Active        bool
	EnrolledAt    time.Time
	UpdatedAt     time.Time
}

// Validate checks the enrollment contract: a named identity scoped to an
// environment with a well-formed embedding.
func (i Identity) Validate() error {
	if i.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}
	if i.EnvironmentID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "identity environment id is required")
	}
	if i.DisplayName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "identity display name is required")
	}
	if len(i.DisplayName) > 256 {
		return dErrors.New(dErrors.CodeInvalidInput, "identity display name too long")
	}
	return i.Embedding.Validate()
}

// Clone returns a deep copy, detaching the embedding from store-owned
// memory.
func (i Identity) Clone() Identity {
	out := i
	out.Embedding = i.Embedding.Clone()
	return out
}
