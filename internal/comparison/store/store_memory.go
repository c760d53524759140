package store

import (
	"context"
	"slices"
	"sync"

	"quotedesk/internal/comparison/models"
	"quotedesk/pkg/platform/sentinel"
)

// InMemoryStore is an append-only request log kept in process memory.
// Used when no database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []models.LogRecord
}

// NewInMemory creates an empty in-memory request log.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

// Insert appends a copy of record. Duplicate ids are rejected.
func (s *InMemoryStore) Insert(_ context.Context, record *models.LogRecord) error {
	if record == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == record.ID {
			return sentinel.ErrConflict
		}
	}
	s.records = append(s.records, clone(*record))
	return nil
}

// ListRecent returns up to limit records, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]*models.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := make([]models.LogRecord, len(s.records))
	copy(sorted, s.records)
	slices.SortStableFunc(sorted, func(a, b models.LogRecord) int {
		return b.SentAt.Compare(a.SentAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]*models.LogRecord, 0, len(sorted))
	for _, r := range sorted {
		c := clone(r)
		out = append(out, &c)
	}
	return out, nil
}

func clone(r models.LogRecord) models.LogRecord {
	r.CCEmails = slices.Clone(r.CCEmails)
	r.BCCEmails = slices.Clone(r.BCCEmails)
	r.QuotationIDs = slices.Clone(r.QuotationIDs)
	return r
}
