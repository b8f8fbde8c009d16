package handler

import (
	"time"

	"warden/internal/domain"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// EvaluateRequest is the HTTP request body for POST /v1/access/evaluate.
type EvaluateRequest struct {
	EnvironmentID string             `json:"environment_id,omitempty"`
	SourceID      string             `json:"source_id"`
	Timestamp     string             `json:"timestamp,omitempty"`
	Embedding     []float64          `json:"embedding"`
	DetectedItems map[string]float64 `json:"detected_items,omitempty"`

	parsedInput domain.DetectionInput
}

// Validate validates the request and builds the detection input.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
// Numeric range and dimensionality checks live on the domain input; this
// only rejects structurally unusable requests.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if r.SourceID == "" {
		return dErrors.New(dErrors.CodeValidation, "source_id is required")
	}
	sourceID, err := id.ParseSourceID(r.SourceID)
	if err != nil {
		return err
	}

	var environmentID id.EnvironmentID
	if r.EnvironmentID != "" {
		environmentID, err = id.ParseEnvironmentID(r.EnvironmentID)
		if err != nil {
			return err
		}
	}

	var timestamp time.Time
	if r.Timestamp != "" {
		timestamp, err = time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "timestamp must be RFC3339")
		}
	}

	if len(r.Embedding) == 0 {
		return dErrors.New(dErrors.CodeValidation, "embedding is required")
	}

	items := make(map[id.ItemKind]float64, len(r.DetectedItems))
	for kind, confidence := range r.DetectedItems {
		items[id.ItemKind(kind)] = confidence
	}

	r.parsedInput = domain.DetectionInput{
		EnvironmentID:  environmentID,
		SourceID:       sourceID,
		Timestamp:      timestamp,
		QueryEmbedding: domain.Embedding(r.Embedding),
		DetectedItems:  items,
	}
	return nil
}

// ParsedInput returns the detection input assembled by Validate.
func (r *EvaluateRequest) ParsedInput() domain.DetectionInput {
	return r.parsedInput
}
