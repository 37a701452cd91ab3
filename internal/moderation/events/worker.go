package events

import (
	"context"
	"log/slog"
)

// Sink receives events drained from the publisher's buffer.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// Worker consumes moderation events from a channel and hands them to a sink.
// Delivery failures are logged, not fatal: the worker keeps draining so a
// flapping sink cannot back up the request path.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Deliver(ctx, event); err != nil {
				w.logger.Error("deliver moderation event",
					"type", event.Type,
					"product_id", event.ItemID,
					"error", err)
			}
		}
	}
}
