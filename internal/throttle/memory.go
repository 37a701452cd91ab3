package throttle

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory sliding-window limiter. Not distributed; use the
// Redis limiter when running more than one replica.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string][]time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-m.window)

	kept := m.buckets[key][:0]
	for _, ts := range m.buckets[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= m.limit {
		m.buckets[key] = kept
		return Result{
			Allowed:   false,
			Limit:     m.limit,
			Remaining: 0,
			ResetAt:   kept[0].Add(m.window),
		}, nil
	}

	kept = append(kept, now)
	m.buckets[key] = kept
	return Result{
		Allowed:   true,
		Limit:     m.limit,
		Remaining: m.limit - len(kept),
		ResetAt:   kept[0].Add(m.window),
	}, nil
}
