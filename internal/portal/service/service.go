package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"quotedesk/internal/portal/models"
	dErrors "quotedesk/pkg/domain-errors"
	audit "quotedesk/pkg/platform/audit"
	"quotedesk/pkg/platform/sentinel"
	"quotedesk/pkg/requestcontext"
)

type Store interface {
	Seed(ctx context.Context, issues []models.Issue) error
	List(ctx context.Context) ([]models.Issue, error)
	MarkCompleted(ctx context.Context, id string, at time.Time) (models.Issue, bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the portal remediation list. Issues only move from open to completed.
type Service struct {
	store   Store
	auditor AuditPublisher
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed loads the starting issues. Called once at startup.
func (s *Service) Seed(ctx context.Context, issues []models.Issue) error {
	if err := s.store.Seed(ctx, issues); err != nil {
		return dErrors.Wrap(err, dErrors.CodePersistence, "failed to seed portal issues")
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Issue, error) {
	issues, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to list portal issues")
	}
	return issues, nil
}

// MarkCompleted is idempotent: repeat calls return the already completed issue.
func (s *Service) MarkCompleted(ctx context.Context, id string) (models.Issue, error) {
	issue, changed, err := s.store.MarkCompleted(ctx, id, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Issue{}, dErrors.New(dErrors.CodeNotFound, "portal issue not found")
		}
		return models.Issue{}, dErrors.Wrap(err, dErrors.CodePersistence, "failed to complete portal issue")
	}
	if changed {
		s.logger.InfoContext(ctx, "portal issue completed",
			"request_id", requestcontext.RequestID(ctx),
			"issue_id", issue.ID,
			"portal", issue.PortalName,
		)
		s.emitAudit(ctx, issue)
	}
	return issue, nil
}

func (s *Service) emitAudit(ctx context.Context, issue models.Issue) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Action:    string(audit.EventPortalIssueCompleted),
		Subject:   issue.ID,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Details:   map[string]string{"portal": issue.PortalName},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"error", err,
			"action", string(audit.EventPortalIssueCompleted),
		)
	}
}
