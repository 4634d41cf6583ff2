package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter over Redis INCR+EXPIRE.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow reports whether the keyed caller is still inside its window budget.
// A nil limiter always allows, so the chat surface works without Redis.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r == nil || r.client == nil || limit <= 0 {
		return true, nil
	}
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

func SessionMessageKey(sessionID string) string {
	return fmt.Sprintf("rate_limit:chat:%s", sessionID)
}
