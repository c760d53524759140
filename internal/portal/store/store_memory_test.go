package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedesk/internal/portal/models"
	"quotedesk/pkg/platform/sentinel"
)

func TestInMemorySeedKeepsOrderAndState(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.Seed(ctx, models.DefaultIssues()))

	_, _, err := s.MarkCompleted(ctx, "1", time.Now())
	require.NoError(t, err)

	// A second seed must not reset completion.
	require.NoError(t, s.Seed(ctx, models.DefaultIssues()))

	issues, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "Tokio Marine Portal", issues[0].PortalName)
	assert.True(t, issues[0].Completed)
	assert.Equal(t, "Sukoon Insurance Portal", issues[1].PortalName)
	assert.False(t, issues[1].Completed)
}

func TestInMemoryMarkCompletedOnce(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.Seed(ctx, models.DefaultIssues()))

	first := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	issue, changed, err := s.MarkCompleted(ctx, "2", first)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, issue.Completed)
	require.NotNil(t, issue.CompletedAt)
	assert.Equal(t, first, *issue.CompletedAt)

	issue, changed, err = s.MarkCompleted(ctx, "2", first.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first, *issue.CompletedAt)
}

func TestInMemoryMarkCompletedUnknown(t *testing.T) {
	_, _, err := NewInMemory().MarkCompleted(context.Background(), "404", time.Now())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
