package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher records audit entries. It is append-only and delegates
// persistence to a Store so tests can swap sinks easily.
//
// By default Record is synchronous: the entry is persisted before the
// verification response is returned. WithAsyncBuffer trades that guarantee
// for latency; deployments that enable it accept drops under backpressure.
type Publisher struct {
	store   Store
	entries chan Entry
	wg      sync.WaitGroup
	logger  *slog.Logger
	async   bool
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Entries are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.entries = make(chan Entry, size)
			p.async = true
		}
	}
}

// WithPublisherLogger sets a logger for async error reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEntries()
	}
	return p
}

// processEntries runs in a goroutine and persists entries from the channel.
func (p *Publisher) processEntries() {
	defer p.wg.Done()
	for entry := range p.entries {
		if err := p.store.Append(context.Background(), entry); err != nil {
			if p.logger != nil {
				p.logger.Error("failed to persist audit entry",
					"error", err,
					"batch_code", entry.BatchCode,
					"outcome", entry.Outcome,
				)
			}
		}
	}
}

// Close shuts down the async publisher and waits for pending entries to drain.
func (p *Publisher) Close() {
	if p.async && p.entries != nil {
		close(p.entries)
		p.wg.Wait()
	}
}

// Record persists one entry, stamping the timestamp if unset.
func (p *Publisher) Record(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if p.async {
		// Non-blocking send; drop entry if buffer is full to avoid blocking hot path
		select {
		case p.entries <- entry:
			return nil
		default:
			if p.logger != nil {
				p.logger.Warn("audit buffer full, entry dropped",
					"batch_code", entry.BatchCode,
					"outcome", entry.Outcome,
				)
			}
			return nil
		}
	}
	return p.store.Append(ctx, entry)
}
