package reconcile

import (
	"errors"
	"time"
)

const defaultPassTimeout = 10 * time.Minute

// Config holds configuration for cache/ledger reconciliation.
type Config struct {
	// IntervalMinutes is the reconciliation cadence.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"60"`
	// Tolerance is the largest absolute discrepancy that still passes.
	Tolerance int64 `mapstructure:"tolerance" default:"0"`
	// Concurrency bounds the products evaluated in parallel.
	Concurrency int `mapstructure:"concurrency" default:"8"`
	// TimeoutMinutes bounds one pass, independent of the caller that started it.
	TimeoutMinutes int `mapstructure:"timeout_minutes" default:"10"`
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.IntervalMinutes <= 0 {
		return errors.New("reconcile interval_minutes must be positive")
	}
	if c.Tolerance < 0 {
		return errors.New("reconcile tolerance must not be negative")
	}
	if c.Concurrency <= 0 {
		return errors.New("reconcile concurrency must be positive")
	}
	if c.TimeoutMinutes <= 0 {
		return errors.New("reconcile timeout_minutes must be positive")
	}
	return nil
}

// Interval returns the reconciliation cadence as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// PassTimeout returns the deadline of one reconciliation pass.
func (c Config) PassTimeout() time.Duration {
	if c.TimeoutMinutes <= 0 {
		return defaultPassTimeout
	}
	return time.Duration(c.TimeoutMinutes) * time.Minute
}
