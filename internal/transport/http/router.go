// Package httptransport assembles the HTTP surface: public source
// endpoints, the authenticated evaluation endpoint, and the operational
// endpoints. Handlers stay in their feature packages; this package only
// mounts them behind the shared middleware chain.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accesshandler "warden/internal/access/handler"
	sourcehandler "warden/internal/source/handler"
	authmw "warden/pkg/platform/middleware/auth"
	"warden/pkg/platform/middleware/metadata"
	"warden/pkg/platform/middleware/recovery"
	"warden/pkg/platform/middleware/requestid"
	"warden/pkg/platform/middleware/requestlog"
	"warden/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger    *slog.Logger
	Sources   *sourcehandler.Handler
	Access    *accesshandler.Handler
	Validator authmw.TokenValidator
	Health    *HealthHandler
}

// NewRouter builds the chi router. Middleware order matters: recovery
// wraps everything, request-id before the request log so log lines
// carry the correlation id, and source auth guards only the evaluation
// routes.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(recovery.Middleware(d.Logger))
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(requestlog.Middleware(d.Logger))

	r.Get("/healthz", d.Health.HandleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	d.Sources.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireSourceAuth(d.Validator, d.Logger))
		d.Access.Register(r)
	})

	return r
}
