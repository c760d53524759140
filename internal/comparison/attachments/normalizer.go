// Package attachments turns success and failure quotations into one ordered attachment set.
package attachments

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"quotedesk/internal/comparison/metrics"
	"quotedesk/internal/comparison/models"
	dErrors "quotedesk/pkg/domain-errors"
)

// FallbackFilename names a document whose portal name is blank.
const FallbackFilename = "quotation.pdf"

// Normalizer fetches success documents concurrently and encodes everything as PDF attachments.
type Normalizer struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithMetrics enables fetch latency metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Normalizer) {
		n.metrics = m
	}
}

// New constructs a Normalizer over the given fetcher.
func New(fetcher Fetcher, opts ...Option) *Normalizer {
	n := &Normalizer{
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Normalize returns success attachments followed by failure attachments, each group in input order.
// Failure payloads are checked before any download starts. The first failed download cancels the
// rest and no attachments are returned.
func (n *Normalizer) Normalize(ctx context.Context, successes []models.SuccessQuotation, failures []models.FailureQuotation) ([]models.Attachment, error) {
	failed, err := failureAttachments(failures)
	if err != nil {
		return nil, err
	}

	fetched := make([]models.Attachment, len(successes))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range successes {
		g.Go(func() error {
			att, err := n.fetch(gctx, q)
			if err != nil {
				return err
			}
			fetched[i] = att
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Attachment, 0, len(fetched)+len(failed))
	out = append(out, fetched...)
	out = append(out, failed...)
	return out, nil
}

func (n *Normalizer) fetch(ctx context.Context, q models.SuccessQuotation) (models.Attachment, error) {
	start := time.Now()
	body, err := n.fetcher.Fetch(ctx, q.FileURL)
	if err != nil {
		n.metrics.ObserveFetchLatency("error", time.Since(start))
		n.logger.WarnContext(ctx, "quotation fetch failed",
			"portal", q.PortalName,
			"url", q.FileURL,
			"error", err,
		)
		return models.Attachment{}, dErrors.Wrap(err, dErrors.CodeUpstream,
			fmt.Sprintf("Failed to fetch quotation document for %s", displayName(q.PortalName)))
	}
	n.metrics.ObserveFetchLatency("ok", time.Since(start))

	return models.Attachment{
		Filename: successFilename(q),
		Content:  base64.StdEncoding.EncodeToString(body),
		Type:     models.PDFMediaType,
	}, nil
}

func failureAttachments(failures []models.FailureQuotation) ([]models.Attachment, error) {
	out := make([]models.Attachment, 0, len(failures))
	for _, q := range failures {
		content := stripDataURL(strings.TrimSpace(q.FileData))
		if content == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest,
				fmt.Sprintf("Missing document data for %s", displayName(q.PortalName)))
		}
		if _, err := base64.StdEncoding.DecodeString(content); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest,
				fmt.Sprintf("Invalid document data for %s", displayName(q.PortalName)))
		}
		out = append(out, models.Attachment{
			Filename: portalFilename(q.PortalName),
			Content:  content,
			Type:     models.PDFMediaType,
		})
	}
	return out, nil
}

func successFilename(q models.SuccessQuotation) string {
	if name := strings.TrimSpace(q.FileName); name != "" {
		return name
	}
	return portalFilename(q.PortalName)
}

func portalFilename(portal string) string {
	portal = strings.TrimSpace(portal)
	if portal == "" {
		return FallbackFilename
	}
	return portal + ".pdf"
}

// stripDataURL drops a "data:<type>;base64," prefix if the browser left one on.
func stripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if idx := strings.Index(s, ";base64,"); idx != -1 {
		return s[idx+len(";base64,"):]
	}
	return s
}

func displayName(portal string) string {
	if strings.TrimSpace(portal) == "" {
		return "unnamed portal"
	}
	return portal
}
