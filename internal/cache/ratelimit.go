package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per key in fixed windows
type RateLimiter interface {
	// Allow records one hit for key. When the limit is exceeded it reports
	// false and how long until the window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type rateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRateLimiter allows limit hits per window for each key
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) RateLimiter {
	return &rateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
	}
}

func rateKey(key string, window time.Duration, now time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", key, now.UnixNano()/int64(window))
}

func (r *rateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()
	k := rateKey(key, r.window, now)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, r.window)
		return nil
	})
	if err != nil {
		return true, 0, err
	}

	if incr.Val() > r.limit {
		elapsed := time.Duration(now.UnixNano() % int64(r.window))
		return false, r.window - elapsed, nil
	}
	return true, 0, nil
}
