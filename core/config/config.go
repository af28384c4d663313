package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"gig-profile/core/database"
	"gig-profile/core/logger"
	"gig-profile/core/server"
	"gig-profile/core/storage"
	"gig-profile/feature/profile/cache"
	"gig-profile/feature/profile/remote"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application, split per concern.
type Config struct {
	// Server holds configuration for the users API server.
	Server server.Config `mapstructure:"server"`
	// Database holds configuration for the users API database.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage used by the object cache.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Remote holds configuration for the remote profile store client.
	Remote remote.Config `mapstructure:"remote"`
	// Cache holds configuration for the local profile cache.
	Cache cache.Config `mapstructure:"cache"`
}

// LoadConfig loads configuration from the environment, after overlaying the
// .env file found in dir (if any).
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	registerDefaults(v, reflect.TypeOf(Config{}), "")

	// SERVER_PORT -> server.port
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// registerDefaults walks the struct type and registers every mapstructure key
// with its `default` tag. Registering empty defaults is required for
// AutomaticEnv to pick up keys that have no default.
func registerDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			registerDefaults(v, field.Type, key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
