package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window rate limiter backed by Redis. Window state
// expires on its own, so there is no in-process mutable map to leak or to
// disagree across worker processes.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func New(rdb *redis.Client, limit int, window time.Duration, prefix string) *Limiter {
	if limit <= 0 {
		limit = 3
	}
	if window <= 0 {
		window = time.Hour
	}
	return &Limiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow consumes one unit for key and reports whether the caller is still
// inside the window's budget, along with how many units are used.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, int, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{redisKey}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, 0, err
	}

	count, ok := res.(int64)
	if !ok {
		return false, 0, fmt.Errorf("unexpected redis script result type %T", res)
	}

	return count <= int64(l.limit), int(count), nil
}

func (l *Limiter) Limit() int {
	return l.limit
}
