package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/internal/source"
	"warden/pkg/platform/httputil"
	"warden/pkg/platform/middleware/metadata"
	"warden/pkg/requestcontext"
)

// Service defines the credential exchange operation.
type Service interface {
	Authenticate(ctx context.Context, sourceID, secret string) (source.TokenGrant, error)
}

// Handler wires source endpoints to the source service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a source handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts source endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/sources/token", h.HandleToken)
}

// HandleToken handles POST /v1/sources/token requests.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	grant, err := h.service.Authenticate(ctx, req.SourceID, req.Secret)
	if err != nil {
		h.logger.WarnContext(ctx, "source authentication failed",
			"request_id", requestID,
			"source_id", req.SourceID,
			"client_ip", metadata.GetClientIP(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "source token issued",
		"request_id", requestID,
		"source_id", req.SourceID,
	)
	httputil.WriteJSON(w, http.StatusOK, FromGrant(grant))
}
