// Package domain holds the shared kernel of the access decision core:
// typed identifiers and small validated value types used across bounded
// contexts.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment (a SourceID can never stand in for an IdentityID). Construct
// them via the ParseXxxID functions at trust boundaries; direct casting
// bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "warden/pkg/domain-errors"
)

// IdentityID identifies an enrolled identity.
type IdentityID uuid.UUID

// SourceID identifies a capture device submitting detection inputs.
type SourceID uuid.UUID

// DecisionID identifies a persisted access decision.
type DecisionID uuid.UUID

// NewIdentityID generates a random IdentityID.
func NewIdentityID() IdentityID {
	return IdentityID(uuid.New())
}

// NewSourceID generates a random SourceID.
func NewSourceID() SourceID {
	return SourceID(uuid.New())
}

// NewDecisionID generates a random DecisionID.
func NewDecisionID() DecisionID {
	return DecisionID(uuid.New())
}

// ParseIdentityID parses external input into an IdentityID.
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil
// UUID.
func ParseIdentityID(s string) (IdentityID, error) {
	id, err := parseUUID(s, "identity id")
	return IdentityID(id), err
}

// ParseSourceID parses external input into a SourceID.
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil
// UUID.
func ParseSourceID(s string) (SourceID, error) {
	id, err := parseUUID(s, "source id")
	return SourceID(id), err
}

// ParseDecisionID parses external input into a DecisionID.
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil
// UUID.
func ParseDecisionID(s string) (DecisionID, error) {
	id, err := parseUUID(s, "decision id")
	return DecisionID(id), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", what)
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil uuid", what)
	}
	return id, nil
}

func (id IdentityID) String() string { return uuid.UUID(id).String() }
func (id SourceID) String() string   { return uuid.UUID(id).String() }
func (id DecisionID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the id is the zero value.
func (id IdentityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// IsNil reports whether the id is the zero value.
func (id SourceID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// IsNil reports whether the id is the zero value.
func (id DecisionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
