package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gig-profile/feature/profile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cachedProfile is the row layout of the profile_cache table.
type cachedProfile struct {
	CacheKey     string `gorm:"primaryKey;column:cache_key;size:64"`
	Identity     string `gorm:"size:128"`
	DisplayName  string
	ContactEmail string
	ContactPhone string
	Biography    string
	AvatarToken  string   `gorm:"size:16"`
	Role         string   `gorm:"size:16"`
	Skills       []string `gorm:"serializer:json"`
	HourlyRate   string   `gorm:"size:32"`
	LastSyncedAt time.Time
	UpdatedAt    time.Time
}

func (cachedProfile) TableName() string { return "profile_cache" }

// SQLite stores the record as a single row keyed by the cache key.
type SQLite struct {
	db  *gorm.DB
	key string
}

// NewSQLite migrates the cache table and returns a cache bound to key.
func NewSQLite(db *gorm.DB, key string) (*SQLite, error) {
	if err := db.AutoMigrate(&cachedProfile{}); err != nil {
		return nil, fmt.Errorf("failed to migrate profile cache: %w", err)
	}
	return &SQLite{db: db, key: key}, nil
}

func (s *SQLite) Load(ctx context.Context) (profile.Record, bool, error) {
	var row cachedProfile
	err := s.db.WithContext(ctx).First(&row, "cache_key = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return profile.Record{}, false, nil
	}
	if err != nil {
		return profile.Record{}, false, fmt.Errorf("failed to read profile cache: %w", err)
	}

	return profile.Record{
		Identity:     row.Identity,
		DisplayName:  row.DisplayName,
		ContactEmail: row.ContactEmail,
		ContactPhone: row.ContactPhone,
		Biography:    row.Biography,
		AvatarToken:  row.AvatarToken,
		Role:         profile.Role(row.Role),
		Skills:       row.Skills,
		HourlyRate:   row.HourlyRate,
		LastSyncedAt: row.LastSyncedAt.UTC(),
	}, true, nil
}

func (s *SQLite) Save(ctx context.Context, rec profile.Record) error {
	row := cachedProfile{
		CacheKey:     s.key,
		Identity:     rec.Identity,
		DisplayName:  rec.DisplayName,
		ContactEmail: rec.ContactEmail,
		ContactPhone: rec.ContactPhone,
		Biography:    rec.Biography,
		AvatarToken:  rec.AvatarToken,
		Role:         string(rec.Role),
		Skills:       rec.Clone().Skills,
		HourlyRate:   rec.HourlyRate,
		LastSyncedAt: rec.LastSyncedAt,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write profile cache: %w", err)
	}
	return nil
}
