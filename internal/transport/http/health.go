package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"warden/pkg/platform/httputil"
)

// Check probes one backing component.
type Check func(ctx context.Context) error

// DepthReporter exposes the fallback queue backlog. Satisfied by
// *queue.Queue.
type DepthReporter interface {
	Depth(ctx context.Context) (int, error)
}

// HealthHandler reports liveness plus a per-component summary. A failed
// component degrades the response to 503 so orchestrators stop routing
// traffic while the fallback queue absorbs decisions.
type HealthHandler struct {
	logger *slog.Logger
	queue  DepthReporter
	checks []namedCheck
}

type namedCheck struct {
	name  string
	check Check
}

// HealthOption configures optional component checks.
type HealthOption func(*HealthHandler)

// WithCheck registers a named component probe. Nil checks are ignored
// so callers can pass through optional components directly.
func WithCheck(name string, check Check) HealthOption {
	return func(h *HealthHandler) {
		if check != nil {
			h.checks = append(h.checks, namedCheck{name: name, check: check})
		}
	}
}

// NewHealthHandler builds the health endpoint over the fallback queue
// and any configured component checks.
func NewHealthHandler(logger *slog.Logger, queue DepthReporter, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		logger: logger,
		queue:  queue,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HealthResponse is the healthz body.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	QueueDepth int               `json:"queue_depth"`
}

// HandleHealthz handles GET /healthz requests.
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:     "ok",
		Components: make(map[string]string, len(h.checks)+1),
	}

	for _, c := range h.checks {
		if err := c.check(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed",
				"component", c.name,
				"error", err,
			)
			resp.Components[c.name] = "unreachable"
			resp.Status = "degraded"
			continue
		}
		resp.Components[c.name] = "ok"
	}

	depth, err := h.queue.Depth(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "health check failed",
			"component", "queue",
			"error", err,
		)
		resp.Components["queue"] = "unreachable"
		resp.Status = "degraded"
	} else {
		resp.Components["queue"] = "ok"
		resp.QueueDepth = depth
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}
