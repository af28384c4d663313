package cache

// Config holds configuration for the local profile cache.
type Config struct {
	// Driver selects the backend (sqlite, object, memory).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Path is the SQLite file of the sqlite backend.
	Path string `mapstructure:"path" default:".gig-profile/cache.db"`
	// Key names the cached record, like the userData entry of the web client.
	Key string `mapstructure:"key" default:"userData"`
	// Prefix is the object name prefix of the object backend.
	Prefix string `mapstructure:"prefix" default:"cache"`
}

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverObject = "object"
	DriverMemory = "memory"
)
