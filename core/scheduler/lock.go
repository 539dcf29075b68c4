package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
)

// Locker grants the right to run a task for a period of time.
type Locker interface {
	// TryLock returns false without error when another holder owns the key.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisLocker is a Locker backed by redislock.
type RedisLocker struct {
	client *redislock.Client
}

// NewRedisLocker creates a locker on top of a Redis client.
func NewRedisLocker(client redislock.RedisClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(client)}
}

// TryLock obtains the key for ttl. The lock is never released early: it
// expires on its own so the task runs at most once per ttl across instances.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	_, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
