// Package cache opens the Redis connection shared by the stock store, the
// activity controller and the scheduler's distributed lock.
package cache
