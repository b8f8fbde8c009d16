// Package source manages the registry of capture devices and the
// credential exchange that issues their evaluate-endpoint tokens.
package source

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Source is a registered capture device (camera, kiosk) allowed to
// submit detection inputs for exactly one environment.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - SecretHash holds a bcrypt hash, never the plaintext secret
//   - EnvironmentID is immutable after registration
type Source struct {
	ID            id.SourceID
	EnvironmentID id.EnvironmentID
	Name          string
	SecretHash    string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the registration contract.
func (s Source) Validate() error {
	if s.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "source id is required")
	}
	if s.EnvironmentID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "environment id is required")
	}
	if s.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "source name cannot be empty")
	}
	if len(s.Name) > 128 {
		return dErrors.New(dErrors.CodeInvalidInput, "source name must be 128 characters or less")
	}
	if s.SecretHash == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "source secret hash is required")
	}
	return nil
}
