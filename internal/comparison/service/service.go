package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"quotedesk/internal/comparison/metrics"
	"quotedesk/internal/comparison/models"
	"quotedesk/internal/comparison/recipients"
	"quotedesk/internal/comparison/report"
	"quotedesk/internal/delivery"
	dErrors "quotedesk/pkg/domain-errors"
	audit "quotedesk/pkg/platform/audit"
	"quotedesk/pkg/requestcontext"
)

const (
	MsgQuotationRequired = "At least one quotation is required"
	MsgSent              = "Comparison generated and email sent successfully"
)

type Normalizer interface {
	Normalize(ctx context.Context, successes []models.SuccessQuotation, failures []models.FailureQuotation) ([]models.Attachment, error)
}

type Sender interface {
	Send(ctx context.Context, msg delivery.Message) (models.Status, error)
}

type Store interface {
	Insert(ctx context.Context, record *models.LogRecord) error
	ListRecent(ctx context.Context, limit int) ([]*models.LogRecord, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service turns a comparison request into one delivered email and one log row.
// Nothing is sent unless every attachment was prepared, and nothing is logged
// unless the email was handed off.
type Service struct {
	normalizer Normalizer
	sender     Sender
	store      Store
	auditor    AuditPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func New(normalizer Normalizer, sender Sender, store Store, opts ...Option) *Service {
	s := &Service{
		normalizer: normalizer,
		sender:     sender,
		store:      store,
		logger:     slog.Default(),
		tracer:     otel.Tracer("quotedesk/comparison"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate validates, assembles, delivers and logs one comparison.
func (s *Service) Generate(ctx context.Context, req models.Request) (*models.Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "comparison.generate", trace.WithAttributes(
		attribute.Int("comparison.success_count", len(req.SuccessQuotations)),
		attribute.Int("comparison.failure_count", len(req.FailureQuotations)),
	))
	defer span.End()

	status, err := s.generate(ctx, req)
	s.metrics.ObserveGenerateLatency(time.Since(start))
	if err != nil {
		s.metrics.IncrementOutcome(string(dErrors.CodeOf(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, dErrors.MessageOf(err))
		return nil, err
	}
	s.metrics.IncrementOutcome(status.String())
	span.SetAttributes(attribute.String("comparison.status", status.String()))

	return &models.Result{Success: true, Message: MsgSent}, nil
}

func (s *Service) generate(ctx context.Context, req models.Request) (models.Status, error) {
	if err := recipients.Validate(req.RecipientEmail, req.CCEmails, req.BCCEmails); err != nil {
		return "", err
	}
	if !req.HasQuotations() {
		return "", dErrors.New(dErrors.CodeBadRequest, MsgQuotationRequired)
	}
	cc := recipients.ParseAll(req.CCEmails)
	bcc := recipients.ParseAll(req.BCCEmails)
	now := requestcontext.Now(ctx)

	attachments, err := s.normalize(ctx, req)
	if err != nil {
		return "", err
	}

	html, err := s.render(ctx, req, now)
	if err != nil {
		return "", err
	}

	status, err := s.deliver(ctx, delivery.Message{
		To:          strings.TrimSpace(req.RecipientEmail),
		CC:          cc,
		BCC:         bcc,
		Subject:     report.Subject,
		HTML:        html,
		Attachments: attachments,
	})
	if err != nil {
		return "", err
	}
	s.metrics.ObserveAttachmentCount(len(attachments))

	record := &models.LogRecord{
		ID:             uuid.New(),
		RecipientEmail: strings.TrimSpace(req.RecipientEmail),
		CCEmails:       cc,
		BCCEmails:      bcc,
		Message:        req.Message,
		QuotationIDs:   []string{},
		Status:         status,
		SentAt:         now,
	}
	if err := s.record(ctx, record); err != nil {
		// The email is already out; the caller sees a fault and may retry.
		s.logger.ErrorContext(ctx, "comparison sent but not logged",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"recipient", record.RecipientEmail,
		)
		return "", err
	}

	s.logger.InfoContext(ctx, "comparison sent",
		"request_id", requestcontext.RequestID(ctx),
		"log_id", record.ID.String(),
		"status", status.String(),
		"attachments", len(attachments),
	)
	s.emitAudit(ctx, req, record, len(attachments))
	return status, nil
}

func (s *Service) normalize(ctx context.Context, req models.Request) ([]models.Attachment, error) {
	ctx, span := s.tracer.Start(ctx, "comparison.normalize")
	defer span.End()

	attachments, err := s.normalizer.Normalize(ctx, req.SuccessQuotations, req.FailureQuotations)
	if err != nil {
		span.RecordError(err)
		if !dErrors.Is(err) {
			err = dErrors.Wrap(err, dErrors.CodeUpstream, "Failed to prepare quotation documents")
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("comparison.attachments", len(attachments)))
	return attachments, nil
}

func (s *Service) render(ctx context.Context, req models.Request, now time.Time) (string, error) {
	_, span := s.tracer.Start(ctx, "comparison.render")
	defer span.End()

	html, err := report.Render(report.Input{
		Date:           now,
		Message:        req.Message,
		SuccessPortals: req.SuccessPortals(),
		FailurePortals: req.FailurePortals(),
	})
	if err != nil {
		span.RecordError(err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "Failed to render comparison report")
	}
	return html, nil
}

func (s *Service) deliver(ctx context.Context, msg delivery.Message) (models.Status, error) {
	ctx, span := s.tracer.Start(ctx, "comparison.deliver")
	defer span.End()

	status, err := s.sender.Send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		if !dErrors.Is(err) {
			err = dErrors.Wrap(err, dErrors.CodeDelivery, "Failed to send email")
		}
		return "", err
	}
	return status, nil
}

func (s *Service) record(ctx context.Context, record *models.LogRecord) error {
	ctx, span := s.tracer.Start(ctx, "comparison.log")
	defer span.End()

	if err := s.store.Insert(ctx, record); err != nil {
		span.RecordError(err)
		return dErrors.Wrap(err, dErrors.CodePersistence, "Failed to log comparison request")
	}
	return nil
}

func (s *Service) emitAudit(ctx context.Context, req models.Request, record *models.LogRecord, attachments int) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Action:    string(audit.EventComparisonSent),
		Subject:   record.RecipientEmail,
		Decision:  record.Status.String(),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Details: map[string]string{
			"log_id":          record.ID.String(),
			"attachments":     strconv.Itoa(attachments),
			"success_portals": strings.Join(req.SuccessPortals(), ","),
			"failure_portals": strings.Join(req.FailurePortals(), ","),
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"error", err,
			"action", string(audit.EventComparisonSent),
			"log_id", record.ID.String(),
		)
	}
}

// ListRecent returns the newest log records first. limit <= 0 returns all.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*models.LogRecord, error) {
	records, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "Failed to load comparison history")
	}
	return records, nil
}
