package handler

import (
	"time"

	"warden/internal/domain"
)

// EvaluateResponse is the HTTP response for POST /v1/access/evaluate:
// the full decision record plus where it was persisted. Soft denies are
// 200 responses with granted=false.
type EvaluateResponse struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	EnvironmentID string             `json:"environment_id"`
	SourceID      string             `json:"source_id"`
	Match         MatchResponse      `json:"match"`
	Compliance    ComplianceResponse `json:"compliance"`
	Granted       bool               `json:"granted"`
	DenyReason    string             `json:"deny_reason,omitempty"`
	PersistStatus string             `json:"persist_status"`
}

// MatchResponse is the identity gate part of the decision record.
type MatchResponse struct {
	IdentityID  string  `json:"identity_id,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Confidence  float64 `json:"confidence"`
	Decision    string  `json:"decision"`
}

// ComplianceResponse is the dress-code gate part of the decision record.
type ComplianceResponse struct {
	Score             float64  `json:"score"`
	RequiredSatisfied bool     `json:"required_satisfied"`
	MissingRequired   []string `json:"missing_required,omitempty"`
	Decision          string   `json:"decision"`
}

// FromDecision converts a decision and its persist status to an HTTP
// response.
func FromDecision(decision domain.AccessDecision, status domain.PersistStatus) *EvaluateResponse {
	resp := &EvaluateResponse{
		ID:            decision.ID.String(),
		Timestamp:     decision.Timestamp,
		EnvironmentID: decision.EnvironmentID.String(),
		SourceID:      decision.SourceID.String(),
		Match: MatchResponse{
			Confidence: decision.Match.Confidence,
			Decision:   string(decision.Match.Decision),
		},
		Compliance: ComplianceResponse{
			Score:             decision.Compliance.Score,
			RequiredSatisfied: decision.Compliance.RequiredSatisfied,
			Decision:          string(decision.Compliance.Decision),
		},
		Granted:       decision.Granted,
		DenyReason:    string(decision.DenyReason),
		PersistStatus: string(status),
	}

	if !decision.Match.IdentityID.IsNil() {
		resp.Match.IdentityID = decision.Match.IdentityID.String()
		resp.Match.DisplayName = decision.Match.DisplayName
	}
	for _, kind := range decision.Compliance.MissingRequired {
		resp.Compliance.MissingRequired = append(resp.Compliance.MissingRequired, kind.String())
	}
	return resp
}
