// Package domain holds the decision core's shared records: detection
// inputs, match and compliance results, and the persisted access decision.
// Wire shapes (HTTP bodies, event payloads, store rows) live with their
// transports; these types stay transport-agnostic.
package domain

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// MatchDecision is the identity gate outcome.
type MatchDecision string

const (
	MatchMatched MatchDecision = "matched"
	MatchNoMatch MatchDecision = "no_match"
)

// ComplianceDecision is the dress-code gate outcome.
type ComplianceDecision string

const (
	CompliancePass    ComplianceDecision = "pass"
	ComplianceFail    ComplianceDecision = "fail"
	ComplianceSkipped ComplianceDecision = "skipped"
)

// DenyReason explains a denied decision. Empty on granted decisions.
type DenyReason string

const (
	DenyNone                  DenyReason = ""
	DenyIdentityNotRecognized DenyReason = "identity_not_recognized"
	DenyUniformNonCompliant   DenyReason = "uniform_non_compliant"
	DenyConfigurationError    DenyReason = "configuration_error"
	DenyOutsideSchedule       DenyReason = "outside_schedule"
)

// MatchResult is the identity gate's verdict for one detection input.
// Confidence is carried even on NoMatch so near misses stay auditable.
type MatchResult struct {
	IdentityID  id.IdentityID
	DisplayName string
	Confidence  float64
	Decision    MatchDecision
}

// ComplianceResult is the dress-code gate's verdict for one detection
// input. MissingRequired is sorted for deterministic records.
type ComplianceResult struct {
	Score             float64
	RequiredSatisfied bool
	MissingRequired   []id.ItemKind
	Decision          ComplianceDecision
}

// DetectionInput is one evaluation request from a capture source. It is
// transient; only the resulting AccessDecision is persisted.
type DetectionInput struct {
	EnvironmentID  id.EnvironmentID
	SourceID       id.SourceID
	Timestamp      time.Time
	QueryEmbedding Embedding
	DetectedItems  map[id.ItemKind]float64
}

// Validate rejects malformed inputs before any decision is attempted:
// wrong embedding dimensionality or out-of-range item confidences. These
// are the only evaluation-time rejections; every other condition still
// produces a (denied) decision.
func (in DetectionInput) Validate() error {
	if err := in.QueryEmbedding.Validate(); err != nil {
		return err
	}
	for kind, conf := range in.DetectedItems {
		if kind == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "detected item kind cannot be empty")
		}
		if conf < 0 || conf > 1 {
			return dErrors.Newf(dErrors.CodeInvalidInput, "detection confidence for %q must be in [0,1]", kind)
		}
	}
	return nil
}

// AccessDecision is the persisted grant/deny record. Immutable once
// constructed; the decision log is append-only.
//
// Invariant: Granted requires Match.Decision == MatchMatched and
// Compliance.Decision in {CompliancePass, ComplianceSkipped}.
type AccessDecision struct {
	ID            id.DecisionID
	Timestamp     time.Time
	EnvironmentID id.EnvironmentID
	SourceID      id.SourceID
	Match         MatchResult
	Compliance    ComplianceResult
	Granted       bool
	DenyReason    DenyReason
}

// PersistStatus reports where an append landed.
type PersistStatus string

const (
	// PersistedPrimary means the decision reached the primary store.
	PersistedPrimary PersistStatus = "persisted_primary"
	// PersistedLocally means the primary was unavailable and the decision
	// sits in the local fallback queue awaiting reconciliation. Not an
	// error: callers still received a durable decision.
	PersistedLocally PersistStatus = "persisted_locally"
)
