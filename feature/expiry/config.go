package expiry

import (
	"errors"
	"time"
)

const defaultPassTimeout = 5 * time.Minute

// Config holds configuration for the reservation timeout sweep.
type Config struct {
	// GracePeriodMinutes is how long an order may wait for payment.
	GracePeriodMinutes int `mapstructure:"grace_period_minutes" default:"10"`
	// BatchLimit caps the orders processed by one sweep pass.
	BatchLimit int `mapstructure:"batch_limit" default:"500"`
	// IntervalSeconds is the sweep cadence.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"60"`
	// TimeoutSeconds bounds one sweep pass, independent of the caller that started it.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"300"`
}

// Validate rejects settings that would leave the sweep unbounded.
func (c Config) Validate() error {
	if c.GracePeriodMinutes <= 0 {
		return errors.New("expiry grace_period_minutes must be positive")
	}
	if c.BatchLimit <= 0 {
		return errors.New("expiry batch_limit must be positive")
	}
	if c.IntervalSeconds <= 0 {
		return errors.New("expiry interval_seconds must be positive")
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("expiry timeout_seconds must be positive")
	}
	return nil
}

// GracePeriod returns the payment window as a duration.
func (c Config) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodMinutes) * time.Minute
}

// Interval returns the sweep cadence as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// PassTimeout returns the deadline of one sweep pass.
func (c Config) PassTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultPassTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
