// Package requestid assigns every request a correlation id, honoring an
// inbound X-Request-ID so ids survive proxy hops.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"warden/pkg/requestcontext"
)

// Header is the correlation header read and echoed by Middleware.
const Header = "X-Request-ID"

// Middleware stores the request id in the context and echoes it on the
// response. A missing or oversized inbound id is replaced with a fresh
// UUID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
