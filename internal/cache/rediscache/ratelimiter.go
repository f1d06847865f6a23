package rediscache

import (
	"context"
	"time"

	"github.com/BearBump/ZapShift/internal/cache"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts payment intent requests in fixed calendar-minute windows.
type RateLimiter struct {
	c *redis.Client
}

func NewRateLimiter(addr string) *RateLimiter {
	return &RateLimiter{
		c: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// AllowPaymentIntent records one request from clientIP at now. When the
// request is over limit it also reports how long until the window resets.
func (rl *RateLimiter) AllowPaymentIntent(ctx context.Context, clientIP string, now time.Time, limit int64) (bool, time.Duration, error) {
	key := cache.PaymentIntentKey(clientIP, now)
	n, err := rl.incrWindow(ctx, key, time.Minute)
	if err != nil {
		return false, 0, err
	}
	if n <= limit {
		return true, 0, nil
	}
	return false, now.Truncate(time.Minute).Add(time.Minute).Sub(now), nil
}

// incrWindow increments the counter under key and resets its TTL to window.
func (rl *RateLimiter) incrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := rl.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, opError("ratelimit", key, err)
	}
	return incr.Val(), nil
}

func (rl *RateLimiter) Close() error {
	return rl.c.Close()
}
