package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quotedesk/internal/comparison/models"
	dErrors "quotedesk/pkg/domain-errors"
	"quotedesk/pkg/platform/httputil"
	"quotedesk/pkg/requestcontext"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	msgInvalidBody = "invalid request body"
)

// Service defines the interface for comparison operations.
type Service interface {
	Generate(ctx context.Context, req models.Request) (*models.Result, error)
	ListRecent(ctx context.Context, limit int) ([]*models.LogRecord, error)
}

// Handler serves the comparison endpoints. Every error body is {"error": message}.
type Handler struct {
	service      Service
	logger       *slog.Logger
	maxBodyBytes int64
}

func New(service Service, logger *slog.Logger, maxBodyBytes int64) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger, maxBodyBytes: maxBodyBytes}
}

// Register mounts the comparison routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/functions/v1/generate-comparison", h.HandleGenerate)
	r.Post("/comparisons", h.HandleGenerate)
	r.Get("/comparisons", h.HandleHistory)
}

// HandleGenerate runs one comparison and reports the outcome.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req GenerateRequest
	if err := httputil.ReadJSON(w, r, &req, h.maxBodyBytes); err != nil {
		h.logger.WarnContext(ctx, "invalid generate comparison request",
			"request_id", requestID,
			"error", err,
		)
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			writeError(w, http.StatusRequestEntityTooLarge, dErrors.MessageOf(err))
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.service.Generate(ctx, req.toModel())
	if err != nil {
		status := dErrors.HTTPStatus(dErrors.CodeOf(err))
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(ctx, "comparison failed",
				"request_id", requestID,
				"code", string(dErrors.CodeOf(err)),
				"error", err,
			)
		} else {
			h.logger.WarnContext(ctx, "comparison rejected",
				"request_id", requestID,
				"error", err,
			)
		}
		writeError(w, status, dErrors.MessageOf(err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleHistory lists recent comparison log records, newest first.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.service.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list comparisons",
			"request_id", requestID,
			"error", err,
		)
		writeError(w, dErrors.HTTPStatus(dErrors.CodeOf(err)), dErrors.MessageOf(err))
		return
	}
	if records == nil {
		records = []*models.LogRecord{}
	}

	httputil.WriteJSON(w, http.StatusOK, historyResponse{
		Comparisons: records,
		Count:       len(records),
		AsOf:        requestcontext.Now(ctx),
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, MaxHistoryLimit), nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSON(w, status, errorResponse{Error: msg})
}
