package testutil

import (
	"net/http"
	"time"

	"quotedesk/pkg/requestcontext"
)

// WithRequestTime pins the request-scoped clock, as the requesttime middleware would.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
