package handler

//go:generate mockgen -source=handler.go -destination=mocks/portal-mocks.go -package=mocks Service

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"quotedesk/internal/portal/handler/mocks"
	"quotedesk/internal/portal/models"
	dErrors "quotedesk/pkg/domain-errors"
	"quotedesk/pkg/testutil"
)

func newRouter(t *testing.T) (*mocks.MockService, chi.Router) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(svc, testutil.DiscardLogger()).Register(r)
	return svc, r
}

func TestHandleList(t *testing.T) {
	svc, r := newRouter(t)
	svc.EXPECT().List(gomock.Any()).Return(models.DefaultIssues(), nil)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/portal-issues", nil))

	testutil.AssertStatus(t, rr, http.StatusOK)
	body := testutil.UnmarshalResponse[listResponse](t, rr)
	require.Len(t, body.Issues, 2)
	assert.Equal(t, "Tokio Marine Portal", body.Issues[0].PortalName)
	assert.Equal(t, "tokio_user_123", body.Issues[0].Username)
}

func TestHandleListFailure(t *testing.T) {
	svc, r := newRouter(t)
	svc.EXPECT().List(gomock.Any()).Return(nil, dErrors.Wrap(errors.New("redis down"), dErrors.CodePersistence, "failed to list portal issues"))

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/portal-issues", nil))

	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, string(dErrors.CodePersistence))
	assert.NotContains(t, rr.Body.String(), "redis down")
}

func TestHandleComplete(t *testing.T) {
	svc, r := newRouter(t)
	svc.EXPECT().MarkCompleted(gomock.Any(), "2").Return(models.Issue{ID: "2", Completed: true}, nil)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/portal-issues/2/complete", nil))

	testutil.AssertStatus(t, rr, http.StatusOK)
	issue := testutil.UnmarshalResponse[models.Issue](t, rr)
	assert.True(t, issue.Completed)
}

func TestHandleCompleteUnknown(t *testing.T) {
	svc, r := newRouter(t)
	svc.EXPECT().MarkCompleted(gomock.Any(), "9").Return(models.Issue{}, dErrors.New(dErrors.CodeNotFound, "portal issue not found"))

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/portal-issues/9/complete", nil))

	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	assert.Equal(t, "portal issue not found", testutil.UnmarshalErrorResponse(t, rr)["error_description"])
}
