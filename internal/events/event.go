package events

import (
	"time"

	"warden/internal/domain"
)

// decisionEvent is the published wire shape. It mirrors the persisted
// decision record so consumers never need warden's internal types.
type decisionEvent struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	EnvironmentID string          `json:"environment_id"`
	SourceID      string          `json:"source_id"`
	Match         matchEvent      `json:"match"`
	Compliance    complianceEvent `json:"compliance"`
	Granted       bool            `json:"granted"`
	DenyReason    string          `json:"deny_reason,omitempty"`
}

type matchEvent struct {
	IdentityID  string  `json:"identity_id,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Confidence  float64 `json:"confidence"`
	Decision    string  `json:"decision"`
}

type complianceEvent struct {
	Score             float64  `json:"score"`
	RequiredSatisfied bool     `json:"required_satisfied"`
	MissingRequired   []string `json:"missing_required,omitempty"`
	Decision          string   `json:"decision"`
}

func newDecisionEvent(decision domain.AccessDecision) decisionEvent {
	event := decisionEvent{
		ID:            decision.ID.String(),
		Timestamp:     decision.Timestamp,
		EnvironmentID: decision.EnvironmentID.String(),
		SourceID:      decision.SourceID.String(),
		Match: matchEvent{
			DisplayName: decision.Match.DisplayName,
			Confidence:  decision.Match.Confidence,
			Decision:    string(decision.Match.Decision),
		},
		Compliance: complianceEvent{
			Score:             decision.Compliance.Score,
			RequiredSatisfied: decision.Compliance.RequiredSatisfied,
			Decision:          string(decision.Compliance.Decision),
		},
		Granted:    decision.Granted,
		DenyReason: string(decision.DenyReason),
	}
	if !decision.Match.IdentityID.IsNil() {
		event.Match.IdentityID = decision.Match.IdentityID.String()
	}
	for _, kind := range decision.Compliance.MissingRequired {
		event.Compliance.MissingRequired = append(event.Compliance.MissingRequired, kind.String())
	}
	return event
}
