package checks

import (
	"context"
	"fmt"

	"gig-profile/core/storage"

	"go.uber.org/zap"
)

// CheckBucket reports whether the profile bucket exists.
func CheckBucket(ctx context.Context, client storage.Client, bucket string) (bool, error) {
	if client == nil {
		return false, fmt.Errorf("storage client is nil")
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return exists, nil
}

// FixBucket creates the profile bucket if it is missing.
func FixBucket(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Bucket ready", zap.String("bucket", bucket))
	return nil
}
