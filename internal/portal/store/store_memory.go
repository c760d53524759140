package store

import (
	"context"
	"sync"
	"time"

	"quotedesk/internal/portal/models"
	"quotedesk/pkg/platform/sentinel"
)

// InMemoryStore keeps issues in seed order.
type InMemoryStore struct {
	mu     sync.RWMutex
	order  []string
	issues map[string]models.Issue
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{issues: make(map[string]models.Issue)}
}

// Seed adds issues whose IDs are not present yet. Existing issues keep their state.
func (s *InMemoryStore) Seed(_ context.Context, issues []models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, issue := range issues {
		if _, ok := s.issues[issue.ID]; ok {
			continue
		}
		s.order = append(s.order, issue.ID)
		s.issues[issue.ID] = issue
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Issue, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.issues[id])
	}
	return out, nil
}

// MarkCompleted sets Completed once. changed is false when it was already set.
func (s *InMemoryStore) MarkCompleted(_ context.Context, id string, at time.Time) (models.Issue, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	issue, ok := s.issues[id]
	if !ok {
		return models.Issue{}, false, sentinel.ErrNotFound
	}
	if issue.Completed {
		return issue, false, nil
	}
	issue.Completed = true
	issue.CompletedAt = &at
	s.issues[id] = issue
	return issue, true, nil
}
