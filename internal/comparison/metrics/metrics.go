package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the comparison pipeline.
type Metrics struct {
	// Per-document fetch latency by outcome
	FetchLatency *prometheus.HistogramVec

	// Pipeline outcomes: completed, pending, client_error, upstream_error, delivery_error, persistence_error
	Outcomes *prometheus.CounterVec

	// Whole-pipeline latency
	GenerateLatency prometheus.Histogram

	// Attachments per request
	AttachmentCount prometheus.Histogram
}

// New creates a new Metrics instance with all comparison metrics registered.
func New() *Metrics {
	return &Metrics{
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quotedesk_attachment_fetch_duration_seconds",
			Help:    "Duration of quotation document downloads by outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}), // outcome: "ok", "error"

		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "quotedesk_comparison_outcomes_total",
			Help: "Total comparison requests by outcome",
		}, []string{"outcome"}),

		GenerateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "quotedesk_comparison_duration_seconds",
			Help:    "Duration of a full comparison run including fetches and delivery",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		AttachmentCount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "quotedesk_comparison_attachments",
			Help:    "Number of attachments per delivered comparison",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}
}

// ObserveFetchLatency records one document download.
func (m *Metrics) ObserveFetchLatency(outcome string, d time.Duration) {
	if m != nil {
		m.FetchLatency.WithLabelValues(outcome).Observe(d.Seconds())
	}
}

// IncrementOutcome records a pipeline outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome).Inc()
	}
}

// ObserveGenerateLatency records the total pipeline duration.
func (m *Metrics) ObserveGenerateLatency(d time.Duration) {
	if m != nil {
		m.GenerateLatency.Observe(d.Seconds())
	}
}

// ObserveAttachmentCount records how many files one comparison carried.
func (m *Metrics) ObserveAttachmentCount(n int) {
	if m != nil {
		m.AttachmentCount.Observe(float64(n))
	}
}
