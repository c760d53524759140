package models

import (
	"time"

	"github.com/google/uuid"
)

// PDFMediaType is the media type of every outbound attachment.
const PDFMediaType = "application/pdf"

// SuccessQuotation is a quotation document the caller already has at a remote URL.
type SuccessQuotation struct {
	PortalName string `json:"portalName"`
	FileName   string `json:"fileName"`
	FileURL    string `json:"fileUrl"`
}

// FailureQuotation is a quotation document uploaded by the operator as base64 text.
type FailureQuotation struct {
	PortalName string `json:"portalName"`
	FileData   string `json:"fileData"`
}

// Attachment is one normalized outbound file. Content is base64.
type Attachment struct {
	Filename string
	Content  string
	Type     string
}

// Request is one comparison submission.
type Request struct {
	RecipientEmail    string
	CCEmails          []string
	BCCEmails         []string
	Message           string
	SuccessQuotations []SuccessQuotation
	FailureQuotations []FailureQuotation
}

// HasQuotations reports whether at least one quotation was supplied.
func (r Request) HasQuotations() bool {
	return len(r.SuccessQuotations) > 0 || len(r.FailureQuotations) > 0
}

// SuccessPortals returns the portal names of the success quotations in input order.
func (r Request) SuccessPortals() []string {
	names := make([]string, 0, len(r.SuccessQuotations))
	for _, q := range r.SuccessQuotations {
		names = append(names, q.PortalName)
	}
	return names
}

// FailurePortals returns the portal names of the failure quotations in input order.
func (r Request) FailurePortals() []string {
	names := make([]string, 0, len(r.FailureQuotations))
	for _, q := range r.FailureQuotations {
		names = append(names, q.PortalName)
	}
	return names
}

// Status is the delivery outcome recorded in the request log.
type Status string

const (
	// StatusPending means the email was rendered but not handed to a provider (dry send).
	StatusPending Status = "pending"
	// StatusCompleted means the provider accepted the email.
	StatusCompleted Status = "completed"
	// StatusFailed is reserved; failed requests are currently not logged.
	StatusFailed Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// LogRecord is the durable audit row for one comparison request. Never mutated.
type LogRecord struct {
	ID             uuid.UUID `json:"id"`
	RecipientEmail string    `json:"recipient_email"`
	CCEmails       []string  `json:"cc_emails"`
	BCCEmails      []string  `json:"bcc_emails"`
	Message        string    `json:"message"`
	QuotationIDs   []string  `json:"quotation_ids"`
	Status         Status    `json:"status"`
	SentAt         time.Time `json:"sent_at"`
}

// Result is returned to the caller after a successful run.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
