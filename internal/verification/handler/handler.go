// Package handler exposes the verification flow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"batchtrace/internal/platform/middleware"
	"batchtrace/internal/verification"
	"batchtrace/pkg/platform/httputil"
)

// VerificationService runs one verification attempt.
type VerificationService interface {
	Verify(ctx context.Context, req verification.Request) (*verification.Result, error)
}

// Handler handles HTTP requests for batch verification.
type Handler struct {
	service VerificationService
	logger  *slog.Logger
}

// New creates a new verification handler.
func New(service VerificationService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the handler routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify", h.HandleVerify)
}

// SuccessResponse is the success envelope for the verify endpoint.
type SuccessResponse struct {
	Success bool                 `json:"success"`
	Data    *verification.Result `json:"data"`
}

// HandleVerify processes POST /verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, ok := httputil.DecodeJSON[verification.Request](w, r, h.logger, requestID)
	if !ok {
		return
	}
	req.UserAgent = r.UserAgent()
	req.RequestID = requestID

	result, err := h.service.Verify(r.Context(), *req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "verification attempt failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: result})
}
