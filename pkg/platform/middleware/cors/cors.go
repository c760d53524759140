// Package cors answers browser preflight requests and stamps CORS headers on every response.
package cors

import (
	"net/http"
	"strings"
)

const (
	AllowOrigin  = "*"
	AllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	AllowHeaders = "Content-Type, Authorization, X-Client-Info, Apikey"
)

// Options configures the middleware. Zero values fall back to the package defaults.
type Options struct {
	AllowedOrigin  string
	AllowedMethods []string
	AllowedHeaders []string
}

// Middleware applies the default policy.
func Middleware(next http.Handler) http.Handler {
	return New(Options{})(next)
}

// New builds a CORS middleware. OPTIONS requests are answered with 200 and never reach next.
func New(opts Options) func(http.Handler) http.Handler {
	origin := AllowOrigin
	if opts.AllowedOrigin != "" {
		origin = opts.AllowedOrigin
	}
	methods := AllowMethods
	if len(opts.AllowedMethods) > 0 {
		methods = strings.Join(opts.AllowedMethods, ", ")
	}
	headers := AllowHeaders
	if len(opts.AllowedHeaders) > 0 {
		headers = strings.Join(opts.AllowedHeaders, ", ")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
