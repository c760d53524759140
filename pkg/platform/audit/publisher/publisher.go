// Package publisher fronts an audit store with an optional async buffer so
// request paths never wait on a slow sink.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	audit "quotedesk/pkg/platform/audit"
	"quotedesk/pkg/platform/audit/worker"
)

var (
	ErrBufferFull = errors.New("audit buffer full")
	ErrClosed     = errors.New("audit publisher closed")
	ErrWriteOnly  = errors.New("audit store is write-only")
)

// Lister is implemented by stores that can be read back.
type Lister interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	inbox  chan audit.Event
	done   chan struct{}
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit enqueue into a buffer of size n drained by a
// background worker. n <= 0 keeps synchronous mode.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.inbox = make(chan audit.Event, n)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.done = make(chan struct{})
		w := worker.NewWorker(store, p.inbox, p.logger)
		go func() {
			defer close(p.done)
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. In async mode a full buffer returns ErrBufferFull
// instead of blocking the caller.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	event = audit.Prepare(event)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

// ListRecent reads back from the store when it supports it.
func (p *Publisher) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	lister, ok := p.store.(Lister)
	if !ok {
		return nil, ErrWriteOnly
	}
	return lister.ListRecent(ctx, limit)
}

// Close stops accepting events and waits until buffered events are persisted.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.inbox != nil {
		close(p.inbox)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}
