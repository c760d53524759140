package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers outbound communications that must be traceable later.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers operator actions on dashboard state.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID         `json:"id"`
	Category  EventCategory     `json:"category"`
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	Subject   string            `json:"subject"`
	Decision  string            `json:"decision,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

type AuditEvent string

const (
	// Comparison events
	EventComparisonSent AuditEvent = "comparison_sent"

	// Portal events
	EventPortalIssueCompleted AuditEvent = "portal_issue_completed"

	// OCR buffer events
	EventOCRSaved AuditEvent = "ocr_saved"
	EventOCRReset AuditEvent = "ocr_reset"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventComparisonSent:       CategoryCompliance,
	EventPortalIssueCompleted: CategoryOperations,
	EventOCRSaved:             CategoryOperations,
	EventOCRReset:             CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Emitter is what domain services depend on to record audit events.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Prepare fills the fields every stored event must carry.
func Prepare(event Event) Event {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = AuditEvent(event.Action).Category()
	}
	return event
}
