// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Context keys and getter/setter functions live here for values set by
// middleware but consumed by services. The package stays free of net/http
// so services never pull in HTTP code just to read a request id.
//
// Usage in services (read values):
//
//	sourceID := requestcontext.SourceID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithSourceID(ctx, sourceID)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "warden/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	sourceIDKey      struct{}
	environmentIDKey struct{}
	requestIDKey     struct{}
	requestTimeKey   struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeySourceID      = sourceIDKey{}
	ContextKeyEnvironmentID = environmentIDKey{}
	ContextKeyRequestID     = requestIDKey{}
	ContextKeyRequestTime   = requestTimeKey{}
)

// SourceID retrieves the authenticated capture-source ID from the context.
// Returns the zero value (nil UUID) if not set.
func SourceID(ctx context.Context) id.SourceID {
	if sourceID, ok := ctx.Value(ContextKeySourceID).(id.SourceID); ok {
		return sourceID
	}
	return id.SourceID{}
}

// WithSourceID injects a source ID into the context.
func WithSourceID(ctx context.Context, sourceID id.SourceID) context.Context {
	return context.WithValue(ctx, ContextKeySourceID, sourceID)
}

// EnvironmentID retrieves the token-scoped environment ID from the context.
// Returns the empty value if not set.
func EnvironmentID(ctx context.Context) id.EnvironmentID {
	if envID, ok := ctx.Value(ContextKeyEnvironmentID).(id.EnvironmentID); ok {
		return envID
	}
	return ""
}

// WithEnvironmentID injects an environment ID into the context.
func WithEnvironmentID(ctx context.Context, envID id.EnvironmentID) context.Context {
	return context.WithValue(ctx, ContextKeyEnvironmentID, envID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Service unit tests that don't run the full HTTP middleware chain
//   - Workers that need consistent time within a batch operation
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
