package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts requests per key in fixed windows backed by redis, the same
// model as the original deployment's per-IP limits. Counters live entirely in
// redis so several instances share the same budget.
type Limiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewClient returns a configured redis client from a URL such as
// redis://localhost:6379/0, verifying connectivity with a short ping.
func NewClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// NewLimiter builds a fixed-window limiter allowing limit requests per key
// per window. The prefix keeps independent limiters (global vs login) from
// sharing counters.
func NewLimiter(client *redis.Client, prefix string, limit int64, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// incrScript bumps the window counter and sets the expiry only when the
// counter is created, so the window does not slide on every hit.
var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// Allow reports whether the request identified by key fits in the current
// window. Errors are returned to the caller; the middleware decides whether
// to fail open.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)
	res, err := incrScript.Run(ctx, l.client, []string{redisKey}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	n, ok := res.(int64)
	if !ok {
		return false, errors.New("unexpected ratelimit response type")
	}
	return n <= l.limit, nil
}
