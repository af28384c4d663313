package remote

// Config holds configuration for the remote profile store client.
type Config struct {
	// BaseURL is the users API root, without the /api suffix.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:3001"`
	// ApiKey is sent as X-API-Key when set.
	ApiKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
