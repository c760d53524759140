// Package handler serves the recent audit trail for operators.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "quotedesk/pkg/domain-errors"
	audit "quotedesk/pkg/platform/audit"
	"quotedesk/pkg/platform/audit/publisher"
	"quotedesk/pkg/platform/httputil"
	"quotedesk/pkg/requestcontext"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Reader reads audit events back, newest first.
type Reader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

type Handler struct {
	reader Reader
	logger *slog.Logger
}

func New(reader Reader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{reader: reader, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/audit-events", h.HandleList)
}

type listResponse struct {
	Events []audit.Event `json:"events"`
	Count  int           `json:"count"`
}

type unavailableResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.reader.ListRecent(ctx, limit)
	if errors.Is(err, publisher.ErrWriteOnly) {
		httputil.WriteJSON(w, http.StatusNotImplemented, unavailableResponse{
			Error:            "not_readable",
			ErrorDescription: "audit events are published to an external sink",
		})
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Events: events, Count: len(events)})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
	}
	return min(n, MaxLimit), nil
}
