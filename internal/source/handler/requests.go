package handler

import (
	"strings"

	dErrors "warden/pkg/domain-errors"
)

// TokenRequest is the HTTP request body for POST /v1/sources/token.
// The source id format is deliberately not validated here: malformed ids
// fail the exchange exactly like unknown ones.
type TokenRequest struct {
	SourceID string `json:"source_id"`
	Secret   string `json:"secret"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *TokenRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.SourceID = strings.TrimSpace(r.SourceID)
	if r.SourceID == "" {
		return dErrors.New(dErrors.CodeValidation, "source_id is required")
	}
	if r.Secret == "" {
		return dErrors.New(dErrors.CodeValidation, "secret is required")
	}
	return nil
}
