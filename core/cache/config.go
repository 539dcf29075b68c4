package cache

// Config holds configuration for the Redis connection backing the stock counters.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis logical database.
	DB int `mapstructure:"db" default:"0"`
	// TimeoutSeconds bounds dial, read and write operations.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}
