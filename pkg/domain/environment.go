package domain

import (
	dErrors "warden/pkg/domain-errors"
)

// EnvironmentID is the stable key of a deployment environment policy,
// e.g. "hospital". Unlike the uuid-typed ids it is a human-assigned slug:
// lowercase letters, digits, and underscores.
//
// Usage: construct via ParseEnvironmentID at trust boundaries.
type EnvironmentID string

const maxEnvironmentIDLen = 64

// ParseEnvironmentID validates external input into an EnvironmentID.
// Errors: CodeInvalidInput when empty, too long, or containing characters
// outside [a-z0-9_].
func ParseEnvironmentID(s string) (EnvironmentID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "environment id cannot be empty")
	}
	if len(s) > maxEnvironmentIDLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "environment id too long")
	}
	for _, r := range s {
		if !isSlugRune(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "environment id must be lowercase letters, digits, or underscores")
		}
	}
	return EnvironmentID(s), nil
}

// String returns the string representation of the environment id.
func (e EnvironmentID) String() string {
	return string(e)
}

// IsNil reports whether the environment id is empty.
func (e EnvironmentID) IsNil() bool {
	return e == ""
}

// ItemKind labels one detectable worn item, e.g. "helmet" or
// "student_id_card". Same slug alphabet as EnvironmentID.
type ItemKind string

const maxItemKindLen = 64

// ParseItemKind validates external input into an ItemKind.
// Errors: CodeInvalidInput when empty, too long, or containing characters
// outside [a-z0-9_].
func ParseItemKind(s string) (ItemKind, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "item kind cannot be empty")
	}
	if len(s) > maxItemKindLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "item kind too long")
	}
	for _, r := range s {
		if !isSlugRune(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "item kind must be lowercase letters, digits, or underscores")
		}
	}
	return ItemKind(s), nil
}

// String returns the string representation of the item kind.
func (k ItemKind) String() string {
	return string(k)
}

func isSlugRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}
