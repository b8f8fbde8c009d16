package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/internal/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

// Service defines the evaluation operation.
type Service interface {
	Evaluate(ctx context.Context, input domain.DetectionInput) (domain.AccessDecision, domain.PersistStatus, error)
}

// Handler wires the evaluate endpoint to the access service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an access handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the evaluate endpoint on the router. The route group
// must already carry the source auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/access/evaluate", h.HandleEvaluate)
}

// HandleEvaluate handles POST /v1/access/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	input := req.ParsedInput()

	// The token names the calling source; a body claiming another source
	// is rejected before any evaluation.
	if tokenSource := requestcontext.SourceID(ctx); tokenSource != input.SourceID {
		h.logger.WarnContext(ctx, "source mismatch between token and body",
			"request_id", requestID,
			"token_source_id", tokenSource,
			"body_source_id", input.SourceID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token does not match source_id"))
		return
	}

	decision, status, err := h.service.Evaluate(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "evaluation failed",
			"request_id", requestID,
			"source_id", input.SourceID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision, status))
}
