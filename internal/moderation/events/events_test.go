package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *captureSink) Deliver(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestPublisherStampsTimestamp(t *testing.T) {
	p := NewPublisher(4, nil)
	p.Publish(Event{Type: TypeDecision, ItemID: 100})

	event := <-p.Inbox()
	assert.False(t, event.OccurredAt.IsZero())
}

func TestPublisherDropsWhenFull(t *testing.T) {
	p := NewPublisher(1, nil)
	p.Publish(Event{Type: TypeDecision, ItemID: 1})
	p.Publish(Event{Type: TypeDecision, ItemID: 2}) // buffer full, dropped

	event := <-p.Inbox()
	assert.Equal(t, int64(1), event.ItemID)
	select {
	case extra := <-p.Inbox():
		t.Fatalf("unexpected buffered event for product %d", extra.ItemID)
	default:
	}
}

func TestWorkerDrainsToSink(t *testing.T) {
	p := NewPublisher(4, nil)
	sink := &captureSink{}
	worker := NewWorker(sink, p.Inbox(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	p.Publish(Event{Type: TypeDecision, ItemID: 100, ActorID: 42})

	require.Eventually(t, func() bool {
		return len(sink.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int64(100), sink.snapshot()[0].ItemID)
}

func TestWorkerSurvivesSinkFailure(t *testing.T) {
	p := NewPublisher(4, nil)
	sink := &captureSink{err: errors.New("broker down")}
	worker := NewWorker(sink, p.Inbox(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	p.Publish(Event{Type: TypeDecision, ItemID: 1})
	p.Publish(Event{Type: TypeDecision, ItemID: 2})

	require.Eventually(t, func() bool {
		return len(p.inbox) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, sink.snapshot())
}
