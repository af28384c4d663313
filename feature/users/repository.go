package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository persists users through GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the users table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&User{})
}

// Find returns the user with the address, or nil if there is none.
func (r *Repository) Find(ctx context.Context, address string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("address = ?", address).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", address, err)
	}
	return &u, nil
}

// Create inserts a new user. A duplicate primary key is reported as
// ErrConflict, which needs TranslateError on the gorm config.
func (r *Repository) Create(ctx context.Context, u *User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to create user %s: %w", u.Address, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.Address, err)
	}
	return nil
}

// Save writes every column of an existing user.
func (r *Repository) Save(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("failed to save user %s: %w", u.Address, err)
	}
	return nil
}
