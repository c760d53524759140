package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quotedesk/internal/portal/models"
	dErrors "quotedesk/pkg/domain-errors"
	"quotedesk/pkg/platform/httputil"
	"quotedesk/pkg/requestcontext"
)

// Service defines the interface for portal issue operations.
type Service interface {
	List(ctx context.Context) ([]models.Issue, error)
	MarkCompleted(ctx context.Context, id string) (models.Issue, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/portal-issues", h.HandleList)
	r.Post("/portal-issues/{id}/complete", h.HandleComplete)
}

type listResponse struct {
	Issues []models.Issue `json:"issues"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	issues, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list portal issues",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Issues: issues})
}

func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	issue, err := h.service.MarkCompleted(ctx, id)
	if err != nil {
		if !dErrors.IsClientFault(err) {
			h.logger.ErrorContext(ctx, "failed to complete portal issue",
				"request_id", requestcontext.RequestID(ctx),
				"issue_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, issue)
}
