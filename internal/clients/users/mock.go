package users

import (
	"context"
	"fmt"
	"time"

	"marketmod/pkg/domain"
	"marketmod/pkg/platform/sentinel"
)

// MockResolver resolves roles from a fixed table, with a configurable latency
// to mimic real lookups. Used in tests and dev wiring.
type MockResolver struct {
	Roles   map[domain.ActorID][]string
	Latency time.Duration
	Err     error
}

func (m *MockResolver) Resolve(ctx context.Context, actorID domain.ActorID) ([]string, error) {
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	roles, ok := m.Roles[actorID]
	if !ok {
		return nil, fmt.Errorf("actor %d: %w", actorID, sentinel.ErrNotFound)
	}
	return roles, nil
}
