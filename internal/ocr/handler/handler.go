package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"quotedesk/internal/ocr/models"
	dErrors "quotedesk/pkg/domain-errors"
	"quotedesk/pkg/platform/httputil"
	"quotedesk/pkg/requestcontext"
)

// Service defines the interface for the OCR edit buffer.
type Service interface {
	Get(ctx context.Context) models.Data
	Update(ctx context.Context, section models.Section, values map[string]string) (models.Data, error)
	Reset(ctx context.Context) models.Data
	Save(ctx context.Context) (models.Data, error)
}

// fieldUpdates is the PATCH body: field name to new value. Values are trimmed.
type fieldUpdates map[string]string

func (u *fieldUpdates) Validate() error {
	if len(*u) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "no fields to update")
	}
	for name, value := range *u {
		(*u)[name] = strings.TrimSpace(value)
	}
	return nil
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
	r.Route("/ocr", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Patch("/{section}", h.HandleUpdate)
		r.Post("/reset", h.HandleReset)
		r.Post("/save", h.HandleSave)
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Get(r.Context()))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	section := models.Section(chi.URLParam(r, "section"))

	values, ok := httputil.DecodeAndPrepare[fieldUpdates](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	data, err := h.service.Update(ctx, section, *values)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected ocr update",
			"request_id", requestcontext.RequestID(ctx),
			"section", string(section),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, data)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Reset(r.Context()))
}

func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.service.Save(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save ocr data",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, data)
}
