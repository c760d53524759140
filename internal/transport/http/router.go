package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quotedesk/internal/platform/metrics"
	"quotedesk/pkg/platform/httputil"
	"quotedesk/pkg/platform/middleware/cors"
	"quotedesk/pkg/platform/middleware/metadata"
	"quotedesk/pkg/platform/middleware/requesttime"
)

// HealthCheckTimeout bounds each dependency probe behind /health.
const HealthCheckTimeout = 2 * time.Second

// Registrar is implemented by domain handlers.
type Registrar interface {
	Register(r chi.Router)
}

// Check probes one dependency.
type Check func(ctx context.Context) error

// Config lists what the router serves.
type Config struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Checks   map[string]Check
	Handlers []Registrar
}

// NewRouter wires the shared middleware chain, the operational endpoints and
// every domain handler. CORS runs before routing so any OPTIONS request is
// answered without a matching route.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metadata.ClientMetadata)
	r.Use(metadata.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Middleware)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/health", healthHandler(cfg.Checks, logger))
	r.Handle("/metrics", metrics.Handler())

	for _, h := range cfg.Handlers {
		h.Register(r)
	}
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]Check, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK

		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), HealthCheckTimeout)
			err := check(ctx)
			cancel()
			if err != nil {
				logger.WarnContext(r.Context(), "health check failed", "check", name, "error", err)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		httputil.WriteJSON(w, status, resp)
	}
}
