// Package delivery sends rendered comparison reports through a SendGrid v3 compatible API.
//
// A Client without an API key never touches the network: it logs what it would
// have sent and reports the message as pending.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"quotedesk/internal/comparison/models"
	"quotedesk/internal/delivery/metrics"
	dErrors "quotedesk/pkg/domain-errors"
)

const (
	DefaultEndpoint    = "https://api.sendgrid.com/v3/mail/send"
	DefaultFromAddress = "noreply@ocr-dashboard.com"
	DefaultTimeout     = 30 * time.Second

	maxErrorBody = 512
)

// Config is the transport configuration. An empty APIKey selects dry send.
type Config struct {
	APIKey      string
	Endpoint    string
	FromAddress string
	FromName    string
	Timeout     time.Duration
}

// Message is one outbound email.
type Message struct {
	To          string
	CC          []string
	BCC         []string
	Subject     string
	HTML        string
	Attachments []models.Attachment
}

// TransportError is a non-2xx answer from the provider.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("email provider returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("email provider returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Client delivers messages.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client built from Config.Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithLogger sets the logger used for dry sends and provider failures.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

// WithMetrics enables delivery metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// New constructs a Client, filling defaults for unset Config fields.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.FromAddress == "" {
		cfg.FromAddress = DefaultFromAddress
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Configured reports whether the client talks to a real provider.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Send delivers msg. It returns StatusPending for a dry send and StatusCompleted
// once the provider accepted the message. There is no retry.
func (c *Client) Send(ctx context.Context, msg Message) (models.Status, error) {
	if !c.Configured() {
		c.logger.InfoContext(ctx, "dry send: email provider not configured",
			"to", msg.To,
			"cc", msg.CC,
			"bcc", msg.BCC,
			"subject", msg.Subject,
			"attachments", len(msg.Attachments),
			"html_bytes", len(msg.HTML),
		)
		c.logger.DebugContext(ctx, "dry send payload",
			"from", c.cfg.FromAddress,
			"subject", msg.Subject,
			"html", msg.HTML,
			"attachment_names", attachmentNames(msg.Attachments),
		)
		c.metrics.IncrementAttempt("dry", string(models.StatusPending))
		return models.StatusPending, nil
	}

	body, err := json.Marshal(c.payload(msg))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "Failed to encode email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "Failed to build email request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveLatency(time.Since(start))
	if err != nil {
		c.metrics.IncrementAttempt("provider", "error")
		return "", dErrors.Wrap(err, dErrors.CodeDelivery, "Failed to send email")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		terr := &TransportError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
		c.logger.ErrorContext(ctx, "email provider rejected message",
			"status", resp.StatusCode,
			"body", terr.Body,
		)
		c.metrics.IncrementAttempt("provider", "rejected")
		return "", dErrors.Wrap(terr, dErrors.CodeDelivery,
			fmt.Sprintf("Failed to send email: %s", http.StatusText(resp.StatusCode)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	c.metrics.IncrementAttempt("provider", string(models.StatusCompleted))
	return models.StatusCompleted, nil
}

func attachmentNames(attachments []models.Attachment) []string {
	names := make([]string, 0, len(attachments))
	for _, a := range attachments {
		names = append(names, a.Filename)
	}
	return names
}
