package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks email delivery attempts.
type Metrics struct {
	Attempts *prometheus.CounterVec
	Latency  prometheus.Histogram
}

// New creates and registers the delivery metrics.
func New() *Metrics {
	return &Metrics{
		Attempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "quotedesk_delivery_attempts_total",
			Help: "Email delivery attempts by mode and outcome",
		}, []string{"mode", "outcome"}), // mode: "dry", "provider"; outcome: "pending", "completed", "rejected", "error"

		Latency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "quotedesk_delivery_duration_seconds",
			Help:    "Duration of email provider calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementAttempt records one delivery attempt.
func (m *Metrics) IncrementAttempt(mode, outcome string) {
	if m != nil {
		m.Attempts.WithLabelValues(mode, outcome).Inc()
	}
}

// ObserveLatency records one provider call.
func (m *Metrics) ObserveLatency(d time.Duration) {
	if m != nil {
		m.Latency.Observe(d.Seconds())
	}
}
