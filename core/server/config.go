package server

// Config holds configuration for the operational HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
}

// AuthEnabled reports whether requests must carry the API key.
func (c Config) AuthEnabled() bool {
	return c.ApiKey != ""
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}
