package httptransport

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"quotedesk/pkg/requestcontext"
	"quotedesk/pkg/testutil"
)

type echoHandler struct{}

func (echoHandler) Register(r chi.Router) {
	r.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Echo-Request-Id", requestcontext.RequestID(ctx))
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func TestHealthOK(t *testing.T) {
	h := NewRouter(Config{
		Logger: testutil.DiscardLogger(),
		Checks: map[string]Check{"database": func(context.Context) error { return nil }},
	})

	rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/health", nil))

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, rr.Body.String())
}

func TestHealthWithoutChecks(t *testing.T) {
	h := NewRouter(Config{Logger: testutil.DiscardLogger()})

	rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/health", nil))

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHealthDegraded(t *testing.T) {
	h := NewRouter(Config{
		Logger: testutil.DiscardLogger(),
		Checks: map[string]Check{
			"database": func(context.Context) error { return errors.New("connection refused") },
			"redis":    func(context.Context) error { return nil },
		},
	})

	rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/health", nil))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	assert.JSONEq(t, `{"status":"degraded","checks":{"database":"unavailable","redis":"ok"}}`, rr.Body.String())
}

func TestPreflightOnAnyPath(t *testing.T) {
	h := NewRouter(Config{Logger: testutil.DiscardLogger(), Handlers: []Registrar{echoHandler{}}})

	for _, path := range []string{"/functions/v1/generate-comparison", "/echo", "/nowhere"} {
		rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodOptions, path, nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRequestIDReachesHandlers(t *testing.T) {
	h := NewRouter(Config{Logger: testutil.DiscardLogger(), Handlers: []Registrar{echoHandler{}}})

	req := testutil.NewJSONRequest(t, http.MethodGet, "/echo", nil)
	req.Header.Set("X-Request-Id", "trace-42")
	rr := testutil.DoRequest(h, req)

	testutil.AssertStatus(t, rr, http.StatusNoContent)
	assert.Equal(t, "trace-42", rr.Header().Get("X-Echo-Request-Id"))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	h := NewRouter(Config{Logger: testutil.DiscardLogger(), Handlers: []Registrar{echoHandler{}}})

	rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/panic", nil))

	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewRouter(Config{Logger: testutil.DiscardLogger()})

	rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}
