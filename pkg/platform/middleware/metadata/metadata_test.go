package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"quotedesk/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{name: "forwarded chain takes first", headers: map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"}, want: "1.1.1.1"},
		{name: "single forwarded", headers: map[string]string{"X-Forwarded-For": " 3.3.3.3 "}, want: "3.3.3.3"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "4.4.4.4"}, want: "4.4.4.4"},
		{name: "remote addr strips port", remoteAddr: "5.5.5.5:1234", want: "5.5.5.5"},
		{name: "remote addr without port", remoteAddr: "6.6.6.6", want: "6.6.6.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(r))
		})
	}
}

func TestMiddlewareChainPopulatesContext(t *testing.T) {
	var gotIP, gotUA, gotReqID string
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
		gotReqID = requestcontext.RequestID(r.Context())
	})

	h := middleware.RequestID(ClientMetadata(RequestID(final)))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "9.9.9.9:80"
	r.Header.Set("User-Agent", "dashboard/1.0")
	r.Header.Set(middleware.RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "9.9.9.9", gotIP)
	assert.Equal(t, "dashboard/1.0", gotUA)
	assert.Equal(t, "abc-123", gotReqID)
}
