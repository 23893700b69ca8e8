package login

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
)

const throttleKeyPrefix = "goliath-login||"

var ErrTooManyAttempts = errors.New("Too many sign-in attempts")

//go:generate mockgen -source=$GOFILE -destination=throttle_mocks_test.go -package=login_test

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// Throttle allows a fixed number of sign-in attempts per email and minute.
type Throttle struct {
	limiter RequestRateLimiter
	limit   redis_rate.Limit
}

func NewThrottle(limiter RequestRateLimiter, attemptsPerMinute int) *Throttle {
	return &Throttle{
		limiter: limiter,
		limit:   redis_rate.PerMinute(attemptsPerMinute),
	}
}

func NewRedisThrottle(rdb *redis.Client, attemptsPerMinute int) *Throttle {
	return NewThrottle(redis_rate.NewLimiter(rdb), attemptsPerMinute)
}

func (t *Throttle) Allow(ctx context.Context, email string) error {
	res, err := t.limiter.Allow(ctx, throttleKeyPrefix+strings.ToLower(email), t.limit)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}
	if res.Allowed > 0 {
		return nil
	}
	return fmt.Errorf("%w, try again in %s", ErrTooManyAttempts, res.RetryAfter.Round(time.Second))
}
