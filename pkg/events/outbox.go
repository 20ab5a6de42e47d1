package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/floroz/ledger/internal/domain/items"
)

// ErrOutboxFull is returned by Append when the relay has fallen too far behind
var ErrOutboxFull = errors.New("outbox is full")

// EventPublisher defines the interface for publishing events to a broker
type EventPublisher interface {
	Publish(ctx context.Context, exchange string, event *items.Event) error
}

// Outbox is a bounded in-process queue of journal events waiting to be relayed.
// It implements items.Journal.
type Outbox struct {
	events chan *items.Event
}

// NewOutbox creates an outbox holding at most capacity events
func NewOutbox(capacity int) *Outbox {
	return &Outbox{events: make(chan *items.Event, capacity)}
}

// Append enqueues an event without blocking. Only a full outbox rejects it;
// the mutation it records is already committed, so the caller's context
// is not consulted.
func (o *Outbox) Append(_ context.Context, event *items.Event) error {
	select {
	case o.events <- event:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Len returns the number of queued events
func (o *Outbox) Len() int {
	return len(o.events)
}

// OutboxRelay drains the outbox on a fixed interval and publishes the events
type OutboxRelay struct {
	outbox    *Outbox
	publisher EventPublisher
	batchSize int
	interval  time.Duration
	exchange  string
	logger    *slog.Logger

	pending []*items.Event // taken from the outbox but not yet published
}

// NewOutboxRelay creates a new outbox relay
func NewOutboxRelay(
	outbox *Outbox,
	publisher EventPublisher,
	batchSize int,
	interval time.Duration,
	exchange string,
	logger *slog.Logger,
) *OutboxRelay {
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		batchSize: batchSize,
		interval:  interval,
		exchange:  exchange,
		logger:    logger,
	}
}

// Run starts the polling loop. On cancellation it makes one last attempt
// to flush what is queued. Cancel ctx only once nothing can append any more,
// or later events stay in the outbox.
func (r *OutboxRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Flush()
			return nil
		case <-ticker.C:
			if err := r.processBatch(ctx); err != nil {
				r.logger.Error("Error processing batch", "error", err)
			}
		}
	}
}

// Flush publishes everything queued, giving up after one interval.
// It must not run concurrently with Run's loop.
func (r *OutboxRelay) Flush() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	for r.outbox.Len() > 0 || len(r.pending) > 0 {
		if err := r.processBatch(ctx); err != nil {
			r.logger.Warn("Dropping unpublished events on shutdown",
				"count", len(r.pending)+r.outbox.Len(), "error", err)
			return
		}
	}
}

func (r *OutboxRelay) processBatch(ctx context.Context) error {
	r.fill()
	if len(r.pending) == 0 {
		return nil // Nothing to do
	}

	r.logger.Debug("Processing events", "count", len(r.pending))

	for len(r.pending) > 0 {
		event := r.pending[0]
		err := r.publisher.Publish(ctx, r.exchange, event)
		if err != nil {
			// The event stays pending and is retried on the next tick
			return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
		}
		r.pending = r.pending[1:]
	}
	r.pending = nil
	return nil
}

// fill tops pending up to batchSize from the outbox
func (r *OutboxRelay) fill() {
	for len(r.pending) < r.batchSize {
		select {
		case event := <-r.outbox.events:
			r.pending = append(r.pending, event)
		default:
			return
		}
	}
}
