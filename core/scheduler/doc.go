// Package scheduler runs periodic tasks on tickers.
//
// Each task has its own loop. Ticks are fire-and-forget and never overlap for
// the same task. With a Locker configured, a task also runs at most once per
// interval across all instances sharing the Redis.
package scheduler
