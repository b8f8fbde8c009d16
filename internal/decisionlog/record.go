package decisionlog

import (
	"encoding/json"
	"fmt"
	"time"

	"warden/internal/domain"
	id "warden/pkg/domain"
)

// record is the queue wire shape for one decision. Domain models stay
// free of serialization tags; this must round-trip losslessly.
type record struct {
	ID            string           `json:"id"`
	Timestamp     time.Time        `json:"timestamp"`
	EnvironmentID string           `json:"environment_id"`
	SourceID      string           `json:"source_id"`
	Match         matchRecord      `json:"match"`
	Compliance    complianceRecord `json:"compliance"`
	Granted       bool             `json:"granted"`
	DenyReason    string           `json:"deny_reason,omitempty"`
}

type matchRecord struct {
	IdentityID  string  `json:"identity_id,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Confidence  float64 `json:"confidence"`
	Decision    string  `json:"decision"`
}

type complianceRecord struct {
	Score             float64  `json:"score"`
	RequiredSatisfied bool     `json:"required_satisfied"`
	MissingRequired   []string `json:"missing_required,omitempty"`
	Decision          string   `json:"decision"`
}

// EncodeDecision marshals a decision for queue storage.
func EncodeDecision(decision domain.AccessDecision) ([]byte, error) {
	rec := record{
		ID:            decision.ID.String(),
		Timestamp:     decision.Timestamp,
		EnvironmentID: decision.EnvironmentID.String(),
		SourceID:      decision.SourceID.String(),
		Match: matchRecord{
			DisplayName: decision.Match.DisplayName,
			Confidence:  decision.Match.Confidence,
			Decision:    string(decision.Match.Decision),
		},
		Compliance: complianceRecord{
			Score:             decision.Compliance.Score,
			RequiredSatisfied: decision.Compliance.RequiredSatisfied,
			Decision:          string(decision.Compliance.Decision),
		},
		Granted:    decision.Granted,
		DenyReason: string(decision.DenyReason),
	}
	if !decision.Match.IdentityID.IsNil() {
		rec.Match.IdentityID = decision.Match.IdentityID.String()
	}
	for _, kind := range decision.Compliance.MissingRequired {
		rec.Compliance.MissingRequired = append(rec.Compliance.MissingRequired, kind.String())
	}
	return json.Marshal(rec)
}

// DecodeDecision unmarshals a queued decision.
func DecodeDecision(raw []byte) (domain.AccessDecision, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.AccessDecision{}, fmt.Errorf("decode decision record: %w", err)
	}

	decisionID, err := id.ParseDecisionID(rec.ID)
	if err != nil {
		return domain.AccessDecision{}, fmt.Errorf("decode decision record id: %w", err)
	}
	sourceID, err := id.ParseSourceID(rec.SourceID)
	if err != nil {
		return domain.AccessDecision{}, fmt.Errorf("decode decision record source: %w", err)
	}

	decision := domain.AccessDecision{
		ID:            decisionID,
		Timestamp:     rec.Timestamp,
		EnvironmentID: id.EnvironmentID(rec.EnvironmentID),
		SourceID:      sourceID,
		Match: domain.MatchResult{
			DisplayName: rec.Match.DisplayName,
			Confidence:  rec.Match.Confidence,
			Decision:    domain.MatchDecision(rec.Match.Decision),
		},
		Compliance: domain.ComplianceResult{
			Score:             rec.Compliance.Score,
			RequiredSatisfied: rec.Compliance.RequiredSatisfied,
			Decision:          domain.ComplianceDecision(rec.Compliance.Decision),
		},
		Granted:    rec.Granted,
		DenyReason: domain.DenyReason(rec.DenyReason),
	}
	if rec.Match.IdentityID != "" {
		identityID, err := id.ParseIdentityID(rec.Match.IdentityID)
		if err != nil {
			return domain.AccessDecision{}, fmt.Errorf("decode decision record identity: %w", err)
		}
		decision.Match.IdentityID = identityID
	}
	for _, kind := range rec.Compliance.MissingRequired {
		decision.Compliance.MissingRequired = append(decision.Compliance.MissingRequired, id.ItemKind(kind))
	}
	return decision, nil
}
