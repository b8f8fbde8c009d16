package handler

import (
	"time"

	"warden/internal/source"
)

// TokenResponse is the HTTP response for POST /v1/sources/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// FromGrant converts a token grant to an HTTP response.
func FromGrant(grant source.TokenGrant) *TokenResponse {
	return &TokenResponse{
		AccessToken: grant.AccessToken,
		TokenType:   grant.TokenType,
		ExpiresIn:   int64(time.Until(grant.ExpiresAt).Round(time.Second).Seconds()),
	}
}
