package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter throttles inbound chat events per user with a fixed window:
// INCR the window key, set its expiry on first hit, deny past the limit.
type RateLimiter struct {
	client *Client
}

func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow consumes one slot under key and reports whether the caller is still
// within limit for the current window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
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

// UserEventKey buckets the limit per user and event kind, so a photo burst
// cannot starve the same user's button taps.
func UserEventKey(userID int64, kind string) string {
	return fmt.Sprintf("shop_rate:%d:%s", userID, kind)
}
