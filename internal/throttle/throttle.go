// Package throttle bounds moderation writes per moderator with a sliding
// window. The in-memory limiter serves single-instance deployments and tests;
// the Redis limiter keeps the window consistent across replicas.
package throttle

import (
	"context"
	"time"
)

// Result describes one limiter decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter admits or rejects one write attempt for a key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
