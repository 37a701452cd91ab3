package events

import (
	"log/slog"
	"time"
)

// Publisher buffers moderation events for the background worker. Publishing
// never blocks the request path: when the buffer is full the event is dropped
// and logged, monitoring must not stall decisions.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Publish enqueues the event for delivery. Drops on a full buffer.
func (p *Publisher) Publish(event Event) {
	if p == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("event buffer full, dropping event",
			"type", event.Type,
			"product_id", event.ItemID)
	}
}

// Inbox exposes the channel end consumed by the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
