//go:build integration

package throttle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"marketmod/internal/throttle"
	"marketmod/pkg/testutil/containers"
)

type RedisLimiterSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLimiterSuite))
}

func (s *RedisLimiterSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisLimiterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLimiterSuite) TestAllowUpToLimit() {
	ctx := context.Background()
	limiter := throttle.NewRedis(s.redis.Client, 3, time.Minute)

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "42")
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(3, result.Limit)
		s.Equal(2-i, result.Remaining)
	}

	result, err := limiter.Allow(ctx, "42")
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Zero(result.Remaining)
}

func (s *RedisLimiterSuite) TestKeysAreIndependent() {
	ctx := context.Background()
	limiter := throttle.NewRedis(s.redis.Client, 1, time.Minute)

	result, err := limiter.Allow(ctx, "42")
	s.Require().NoError(err)
	s.True(result.Allowed)

	result, err = limiter.Allow(ctx, "42")
	s.Require().NoError(err)
	s.False(result.Allowed)

	result, err = limiter.Allow(ctx, "99")
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *RedisLimiterSuite) TestWindowSlides() {
	ctx := context.Background()
	limiter := throttle.NewRedis(s.redis.Client, 1, 500*time.Millisecond)

	result, err := limiter.Allow(ctx, "42")
	s.Require().NoError(err)
	s.True(result.Allowed)

	result, err = limiter.Allow(ctx, "42")
	s.Require().NoError(err)
	s.False(result.Allowed)

	time.Sleep(600 * time.Millisecond)

	result, err = limiter.Allow(ctx, "42")
	s.Require().NoError(err)
	s.True(result.Allowed)
}
