package cache

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gig-profile/core/database"
	"gig-profile/core/storage"
	"gig-profile/feature/profile"
)

// Open builds the cache backend selected by cfg. The storage configuration is
// only used by the object backend.
func Open(ctx context.Context, cfg Config, storageCfg storage.Config) (profile.Cache, error) {
	key := cfg.Key
	if key == "" {
		key = "userData"
	}

	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil

	case DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("failed to create cache directory: %w", err)
			}
		}
		db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: cfg.Path})
		if err != nil {
			return nil, err
		}
		return NewSQLite(db, key)

	case DriverObject:
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureBucket(ctx, client, storageCfg.Bucket, storageCfg.Region); err != nil {
			return nil, err
		}
		return NewObject(client, storageCfg.Bucket, path.Join(cfg.Prefix, key+".json")), nil

	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
