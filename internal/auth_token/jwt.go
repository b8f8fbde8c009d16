// Package authtoken issues and validates the HS256 bearer tokens that
// capture sources present on the evaluate endpoint.
package authtoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// DefaultTTL bounds token lifetime when no explicit TTL is configured.
const DefaultTTL = time.Hour

// Claims carries the source identity (subject) and its environment.
type Claims struct {
	EnvironmentID string `json:"environment_id"`
	jwt.RegisteredClaims
}

// SourceID returns the validated source identity from the subject claim.
func (c *Claims) SourceID() (id.SourceID, error) {
	return id.ParseSourceID(c.Subject)
}

// Service signs and verifies source tokens.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(signingKey string, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given source and returns it with its
// expiry.
func (s *Service) Issue(sourceID id.SourceID, environmentID id.EnvironmentID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		EnvironmentID: environmentID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sourceID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a bearer token.
// Errors: CodeUnauthorized on expired, malformed, or mis-signed tokens.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
