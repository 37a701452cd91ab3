package throttle

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a sliding-window limiter over a Redis sorted set per key. Members
// are request timestamps; expired members are trimmed on every check.
type Redis struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedis(client *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{client: client, limit: limit, window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()
	cutoff := now.Add(-r.window)
	redisKey := "throttle:moderation:" + key

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("throttle window check: %w", err)
	}

	count := int(countCmd.Val())
	if count >= r.limit {
		return Result{
			Allowed:   false,
			Limit:     r.limit,
			Remaining: 0,
			ResetAt:   now.Add(r.window),
		}, nil
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	pipe = r.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("throttle window record: %w", err)
	}

	return Result{
		Allowed:   true,
		Limit:     r.limit,
		Remaining: r.limit - count - 1,
		ResetAt:   now.Add(r.window),
	}, nil
}
