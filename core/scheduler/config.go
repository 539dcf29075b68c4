package scheduler

// Config holds configuration for the periodic task runner.
type Config struct {
	// DistributedLock guards each task with a Redis lock so only one
	// instance runs it per interval.
	DistributedLock bool `mapstructure:"distributed_lock" default:"true"`
}
