// Package auth guards the detection input boundary: every evaluate call
// must carry a bearer token minted for a registered capture source.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

// TokenValidator validates a source token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims is what the middleware expects back from the validator.
type Claims struct {
	SourceID      id.SourceID
	EnvironmentID id.EnvironmentID
}

// RequireSourceAuth rejects requests without a valid source bearer token
// and injects the token's source and environment into the request context.
func RequireSourceAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"path", r.URL.Path,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = requestcontext.WithSourceID(ctx, claims.SourceID)
			ctx = requestcontext.WithEnvironmentID(ctx, claims.EnvironmentID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
