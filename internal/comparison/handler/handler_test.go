package handler

//go:generate mockgen -source=handler.go -destination=mocks/comparison-mocks.go -package=mocks Service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"quotedesk/internal/comparison/handler/mocks"
	"quotedesk/internal/comparison/models"
	dErrors "quotedesk/pkg/domain-errors"
	"quotedesk/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, testutil.DiscardLogger(), 1<<20).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

const validBody = `{
	"recipientEmail": "a@b.com",
	"ccEmails": ["c@d.com, e@f.com"],
	"bccEmails": "g@h.com",
	"message": "hi",
	"successQuotations": [{"portalName": "AXA", "fileName": "axa.pdf", "fileUrl": "https://files.example.com/axa.pdf"}],
	"failureQuotations": [{"portalName": "Sukoon", "fileData": "JVBERi0="}]
}`

func (s *HandlerSuite) TestGenerateSuccess() {
	for _, path := range []string{"/functions/v1/generate-comparison", "/comparisons"} {
		s.Run(path, func() {
			s.service.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, req models.Request) (*models.Result, error) {
					s.Equal("a@b.com", req.RecipientEmail)
					s.Equal([]string{"c@d.com, e@f.com"}, req.CCEmails)
					s.Equal([]string{"g@h.com"}, req.BCCEmails)
					s.Equal("hi", req.Message)
					s.Require().Len(req.SuccessQuotations, 1)
					s.Equal("https://files.example.com/axa.pdf", req.SuccessQuotations[0].FileURL)
					s.Require().Len(req.FailureQuotations, 1)
					s.Equal("JVBERi0=", req.FailureQuotations[0].FileData)
					return &models.Result{Success: true, Message: "Comparison generated and email sent successfully"}, nil
				})

			rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, path, validBody))

			testutil.AssertStatus(s.T(), rr, http.StatusOK)
			res := testutil.UnmarshalResponse[models.Result](s.T(), rr)
			s.True(res.Success)
			s.Equal("Comparison generated and email sent successfully", res.Message)
		})
	}
}

func (s *HandlerSuite) TestGenerateMalformedJSON() {
	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/comparisons", `{"recipientEmail":`))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, msgInvalidBody)
}

func (s *HandlerSuite) TestGenerateBodyTooLarge() {
	h := chi.NewRouter()
	New(s.service, testutil.DiscardLogger(), 64).Register(h)
	body := `{"message":"` + strings.Repeat("x", 128) + `"}`

	rr := testutil.DoRequest(h, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/comparisons", body))

	testutil.AssertStatus(s.T(), rr, http.StatusRequestEntityTooLarge)
}

func (s *HandlerSuite) TestGenerateServiceErrors() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing recipient", dErrors.New(dErrors.CodeBadRequest, "Recipient email is required"), http.StatusBadRequest},
		{"no quotations", dErrors.New(dErrors.CodeBadRequest, "At least one quotation is required"), http.StatusBadRequest},
		{"fetch failure", dErrors.New(dErrors.CodeUpstream, "Failed to fetch quotation document for AXA"), http.StatusInternalServerError},
		{"delivery failure", dErrors.New(dErrors.CodeDelivery, "Failed to send email: Unauthorized"), http.StatusInternalServerError},
		{"log failure", dErrors.New(dErrors.CodePersistence, "Failed to log comparison request"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.service.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/comparisons", validBody))

			testutil.AssertStatusAndError(s.T(), rr, tt.status, dErrors.MessageOf(tt.err))
		})
	}
}

func (s *HandlerSuite) TestHistoryLimits() {
	tests := []struct {
		query string
		limit int
	}{
		{"", DefaultHistoryLimit},
		{"?limit=5", 5},
		{"?limit=500", MaxHistoryLimit},
	}

	for _, tt := range tests {
		s.Run("limit"+tt.query, func() {
			records := []*models.LogRecord{{RecipientEmail: "a@b.com", Status: models.StatusCompleted, SentAt: time.Now()}}
			s.service.EXPECT().ListRecent(gomock.Any(), tt.limit).Return(records, nil)

			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/comparisons"+tt.query, nil))

			testutil.AssertStatus(s.T(), rr, http.StatusOK)
			var body map[string]json.RawMessage
			s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
			s.JSONEq(`1`, string(body["count"]))
		})
	}
}

func (s *HandlerSuite) TestHistoryRejectsBadLimit() {
	for _, q := range []string{"?limit=0", "?limit=-3", "?limit=ten"} {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/comparisons"+q, nil))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	}
}

func (s *HandlerSuite) TestHistoryEmptyIsArray() {
	s.service.EXPECT().ListRecent(gomock.Any(), DefaultHistoryLimit).Return(nil, nil)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/comparisons", nil))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Contains(rr.Body.String(), `"comparisons":[]`)
}

func (s *HandlerSuite) TestHistoryStoreFailure() {
	s.service.EXPECT().ListRecent(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodePersistence, "Failed to load comparison history"))

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/comparisons", nil))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "Failed to load comparison history")
}

func (s *HandlerSuite) TestHistoryStampsRequestTime() {
	now := time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC)
	s.service.EXPECT().ListRecent(gomock.Any(), DefaultHistoryLimit).Return([]*models.LogRecord{}, nil)

	req := testutil.WithRequestTime(testutil.NewJSONRequest(s.T(), http.MethodGet, "/comparisons", nil), now)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Contains(rr.Body.String(), `"as_of":"2025-03-04T09:30:00Z"`)
}

func TestAddressListUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want AddressList
	}{
		{`null`, nil},
		{`""`, nil},
		{`"a@b.com, c@d.com"`, AddressList{"a@b.com, c@d.com"}},
		{`["a@b.com", "c@d.com"]`, AddressList{"a@b.com", "c@d.com"}},
		{`[]`, AddressList{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var got AddressList
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad AddressList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}
