package repository

import (
	"context"
	"time"
)

// Locker is a mutual-exclusion token keyed by an arbitrary string, used to
// serialize event handling for one user across instances. The in-process
// keyed worker pool already orders same-user events within one instance.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}
