package server

// Config holds configuration for the users API server.
type Config struct {
	// Port is the port the server listens on.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey, when set, is required in the X-API-Key header of every API request.
	ApiKey string `mapstructure:"api_key" default:""`
	// AllowOrigins is the CORS allow list for browser clients.
	AllowOrigins string `mapstructure:"allow_origins" default:"*"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	if c.Port == "" {
		return ":8080"
	}
	return ":" + c.Port
}

// AuthEnabled reports whether requests must carry an API key.
func (c Config) AuthEnabled() bool {
	return c.ApiKey != ""
}
