package worker

import (
	"context"
	"log/slog"

	audit "quotedesk/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. A store
// failure drops that event and the worker keeps draining.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run returns nil once the inbox is closed and drained, or ctx.Err() on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"error", err,
					"action", event.Action,
					"event_id", event.ID.String(),
				)
			}
		}
	}
}
