package users

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates the users feature. It is disabled when db is nil.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	if db == nil {
		return &Feature{}
	}
	svc := NewService(db, logger)
	return &Feature{service: svc, handler: NewHandler(svc, logger), enabled: true}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "users"
}

// IsEnabled reports whether a database is available.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load migrates the users table and registers the routes.
func (f *Feature) Load(app fiber.Router) error {
	missing, err := f.service.Prepare()
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		f.service.logger.Warn("Users table is missing columns", zap.Strings("columns", missing))
	}
	f.handler.RegisterRoutes(app)
	return nil
}
