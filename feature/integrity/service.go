package integrity

import (
	"context"
	"fmt"

	"gig-profile/core/storage"
	"gig-profile/feature/integrity/checks"
	"gig-profile/feature/users"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs the server-side health checks.
type Service struct {
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service. Either client or db may be nil,
// in which case the matching check reports an error.
func NewService(client storage.Client, bucket, region string, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
		db:     db,
	}
}

// CheckSchema compares the users table against the account model.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, &users.User{})
}

// CheckStorage reports whether the profile bucket exists.
func (s *Service) CheckStorage(ctx context.Context) (bool, error) {
	if s.client == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	return checks.CheckBucket(ctx, s.client, s.bucket)
}

// FixStorage creates the profile bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("storage is not configured")
	}
	return checks.FixBucket(ctx, s.client, s.bucket, s.region, s.logger)
}
