package attachments

//go:generate mockgen -source=fetcher.go -destination=mocks/fetcher-mocks.go -package=mocks Fetcher

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"quotedesk/internal/comparison/attachments/mocks"
	"quotedesk/internal/comparison/models"
	dErrors "quotedesk/pkg/domain-errors"
	"quotedesk/pkg/testutil"
)

// fetchFunc adapts a function to Fetcher for timing-sensitive tests.
type fetchFunc func(ctx context.Context, url string) ([]byte, error)

func (f fetchFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// idle keep-alive connections from the HTTP fetcher tests may still be winding down
var leakOpts = []goleak.Option{
	goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
	goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestNormalizePreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts...)

	// later inputs finish first
	delays := map[string]time.Duration{
		"u1": 60 * time.Millisecond,
		"u2": 30 * time.Millisecond,
		"u3": 0,
	}
	n := New(fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		time.Sleep(delays[url])
		return []byte("pdf-" + url), nil
	}), WithLogger(testutil.DiscardLogger()))

	got, err := n.Normalize(context.Background(),
		[]models.SuccessQuotation{
			{PortalName: "Tokio Marine", FileName: "tokio.pdf", FileURL: "u1"},
			{PortalName: "Sukoon", FileName: "sukoon.pdf", FileURL: "u2"},
			{PortalName: "AXA", FileName: "axa.pdf", FileURL: "u3"},
		},
		[]models.FailureQuotation{
			{PortalName: "Orient", FileData: b64("f1")},
			{PortalName: "", FileData: b64("f2")},
		},
	)
	require.NoError(t, err)

	var names []string
	for _, a := range got {
		names = append(names, a.Filename)
		assert.Equal(t, models.PDFMediaType, a.Type)
	}
	assert.Equal(t, []string{"tokio.pdf", "sukoon.pdf", "axa.pdf", "Orient.pdf", "quotation.pdf"}, names)
	assert.Equal(t, b64("pdf-u1"), got[0].Content)
	assert.Equal(t, b64("f1"), got[3].Content)
}

func TestNormalizeAllOrNothing(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts...)

	var cancelled atomic.Bool
	n := New(fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		if url == "bad" {
			return nil, &FetchError{URL: url, StatusCode: http.StatusBadGateway}
		}
		select {
		case <-ctx.Done():
			cancelled.Store(true)
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
			return []byte("slow"), nil
		}
	}), WithLogger(testutil.DiscardLogger()))

	got, err := n.Normalize(context.Background(), []models.SuccessQuotation{
		{PortalName: "Slow", FileName: "slow.pdf", FileURL: "slow"},
		{PortalName: "Broken", FileName: "broken.pdf", FileURL: "bad"},
	}, []models.FailureQuotation{{PortalName: "X", FileData: b64("x")}})

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	assert.True(t, cancelled.Load(), "in-flight fetch should observe cancellation")

	var fe *FetchError
	assert.True(t, errors.As(err, &fe))
}

func TestNormalizeNotFoundOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	n := New(NewHTTPFetcher(), WithLogger(testutil.DiscardLogger()))
	_, err := n.Normalize(context.Background(), []models.SuccessQuotation{
		{PortalName: "Tokio Marine", FileName: "tokio.pdf", FileURL: srv.URL + "/tokio.pdf"},
	}, nil)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	assert.Equal(t, "Failed to fetch quotation document for Tokio Marine", dErrors.MessageOf(err))
}

func TestNormalizeRejectsMalformedFailureDataBeforeFetching(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	// no EXPECT: any fetch fails the test

	n := New(fetcher, WithLogger(testutil.DiscardLogger()))

	tests := []struct {
		name string
		data string
		msg  string
	}{
		{name: "not base64", data: "%%%not-base64%%%", msg: "Invalid document data for Sukoon"},
		{name: "empty", data: "   ", msg: "Missing document data for Sukoon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(context.Background(),
				[]models.SuccessQuotation{{PortalName: "A", FileName: "a.pdf", FileURL: "http://example.invalid/a.pdf"}},
				[]models.FailureQuotation{{PortalName: "Sukoon", FileData: tt.data}},
			)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
			assert.Equal(t, tt.msg, dErrors.MessageOf(err))
		})
	}
}

func TestNormalizeUsesMockedFetcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), "https://files.example.com/a.pdf").Return([]byte("A"), nil)

	n := New(fetcher, WithLogger(testutil.DiscardLogger()))
	got, err := n.Normalize(context.Background(),
		[]models.SuccessQuotation{{PortalName: "Portal A", FileURL: "https://files.example.com/a.pdf"}},
		[]models.FailureQuotation{{PortalName: "Portal B", FileData: "data:application/pdf;base64," + b64("B")}},
	)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Portal A.pdf", got[0].Filename, "blank file name falls back to portal name")
	assert.Equal(t, b64("B"), got[1].Content, "data URL prefix is stripped")
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := New(fetchFunc(func(context.Context, string) ([]byte, error) {
		t.Fatal("unexpected fetch")
		return nil, nil
	}))
	got, err := n.Normalize(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
