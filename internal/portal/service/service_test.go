package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,AuditPublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"quotedesk/internal/portal/models"
	"quotedesk/internal/portal/service/mocks"
	"quotedesk/internal/portal/store"
	dErrors "quotedesk/pkg/domain-errors"
	audit "quotedesk/pkg/platform/audit"
	"quotedesk/pkg/platform/sentinel"
	"quotedesk/pkg/requestcontext"
	"quotedesk/pkg/testutil"
)

func TestMarkCompletedEmitsOnFirstCompletionOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditor := mocks.NewMockAuditPublisher(ctrl)
	st := store.NewInMemory()
	svc := New(st, WithAuditPublisher(auditor), WithLogger(testutil.DiscardLogger()))

	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx, models.DefaultIssues()))

	auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		assert.Equal(t, string(audit.EventPortalIssueCompleted), e.Action)
		assert.Equal(t, "1", e.Subject)
		assert.Equal(t, "Tokio Marine Portal", e.Details["portal"])
		return nil
	}).Times(1)

	issue, err := svc.MarkCompleted(ctx, "1")
	require.NoError(t, err)
	assert.True(t, issue.Completed)

	issue, err = svc.MarkCompleted(ctx, "1")
	require.NoError(t, err)
	assert.True(t, issue.Completed)
}

func TestMarkCompletedUsesRequestTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	svc := New(st, WithLogger(testutil.DiscardLogger()))

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	st.EXPECT().MarkCompleted(gomock.Any(), "2", now).Return(models.Issue{ID: "2", Completed: true}, true, nil)

	_, err := svc.MarkCompleted(ctx, "2")
	assert.NoError(t, err)
}

func TestMarkCompletedErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	svc := New(st)

	st.EXPECT().MarkCompleted(gomock.Any(), "404", gomock.Any()).Return(models.Issue{}, false, sentinel.ErrNotFound)
	_, err := svc.MarkCompleted(context.Background(), "404")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	st.EXPECT().MarkCompleted(gomock.Any(), "1", gomock.Any()).Return(models.Issue{}, false, errors.New("redis down"))
	_, err = svc.MarkCompleted(context.Background(), "1")
	assert.True(t, dErrors.HasCode(err, dErrors.CodePersistence))
}

func TestMarkCompletedIgnoresAuditFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditor := mocks.NewMockAuditPublisher(ctrl)
	st := store.NewInMemory()
	svc := New(st, WithAuditPublisher(auditor), WithLogger(testutil.DiscardLogger()))
	require.NoError(t, svc.Seed(context.Background(), models.DefaultIssues()))

	auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("audit buffer full"))

	_, err := svc.MarkCompleted(context.Background(), "2")
	assert.NoError(t, err)
}

func TestListAndSeedErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	svc := New(st)

	st.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom"))
	_, err := svc.List(context.Background())
	assert.True(t, dErrors.HasCode(err, dErrors.CodePersistence))

	st.EXPECT().Seed(gomock.Any(), gomock.Any()).Return(errors.New("boom"))
	err = svc.Seed(context.Background(), models.DefaultIssues())
	assert.True(t, dErrors.HasCode(err, dErrors.CodePersistence))
}
