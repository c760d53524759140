package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"quotedesk/internal/ocr/models"
	dErrors "quotedesk/pkg/domain-errors"
	audit "quotedesk/pkg/platform/audit"
	"quotedesk/pkg/requestcontext"
)

// Saver receives the working copy when the operator saves.
type Saver interface {
	Save(ctx context.Context, data models.Data) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LogSaver writes the saved record to the log. It is the default Saver.
type LogSaver struct {
	Logger *slog.Logger
}

func (s LogSaver) Save(ctx context.Context, data models.Data) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "ocr data saved",
		"request_id", requestcontext.RequestID(ctx),
		"data", data,
	)
	return nil
}

// Service is the OCR edit buffer: an immutable snapshot and a working copy edited in place.
type Service struct {
	mu       sync.RWMutex
	snapshot models.Data
	working  models.Data

	saver   Saver
	auditor AuditPublisher
	logger  *slog.Logger
}

type Option func(*Service)

func WithSaver(saver Saver) Option {
	return func(s *Service) {
		if saver != nil {
			s.saver = saver
		}
	}
}

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

func New(initial models.Data, opts ...Option) *Service {
	s := &Service{
		snapshot: initial,
		working:  initial,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.saver == nil {
		s.saver = LogSaver{Logger: s.logger}
	}
	return s
}

func (s *Service) Get(_ context.Context) models.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working
}

// Update sets the given fields of one section. Either every field is applied or none.
func (s *Service) Update(_ context.Context, section models.Section, values map[string]string) (models.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.working
	fields, ok := next.Fields(section)
	if !ok {
		return models.Data{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown section: %s", section))
	}
	if len(values) == 0 {
		return models.Data{}, dErrors.New(dErrors.CodeBadRequest, "no fields to update")
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := fields[name]; !ok {
			return models.Data{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown field %q in section %s", name, section))
		}
	}
	for _, name := range names {
		*fields[name] = values[name]
	}

	s.working = next
	return s.working, nil
}

// Reset discards edits and returns the snapshot.
func (s *Service) Reset(ctx context.Context) models.Data {
	s.mu.Lock()
	s.working = s.snapshot
	data := s.working
	s.mu.Unlock()

	s.emitAudit(ctx, audit.EventOCRReset)
	return data
}

// Save hands the working copy to the Saver. The snapshot is unchanged so Reset still restores the seeded data.
func (s *Service) Save(ctx context.Context) (models.Data, error) {
	data := s.Get(ctx)
	if err := s.saver.Save(ctx, data); err != nil {
		return models.Data{}, dErrors.Wrap(err, dErrors.CodePersistence, "failed to save ocr data")
	}
	s.emitAudit(ctx, audit.EventOCRSaved)
	return data, nil
}

func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Action:    string(action),
		Subject:   "ocr",
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"error", err,
			"action", string(action),
		)
	}
}
