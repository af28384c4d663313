package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gig-profile/core/storage"
	"gig-profile/feature/profile"

	"github.com/minio/minio-go/v7"
)

// Object stores the record as a JSON document in object storage, so the cache
// can follow a user across machines.
type Object struct {
	client     storage.Client
	bucket     string
	objectName string
}

// NewObject creates a cache backed by bucket/objectName.
func NewObject(client storage.Client, bucket, objectName string) *Object {
	return &Object{client: client, bucket: bucket, objectName: objectName}
}

func (o *Object) Load(ctx context.Context) (profile.Record, bool, error) {
	obj, err := o.client.GetObject(ctx, o.bucket, o.objectName, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return profile.Record{}, false, nil
		}
		return profile.Record{}, false, fmt.Errorf("failed to get cached profile: %w", err)
	}
	defer obj.Close()

	// MinIO defers the not-found error to the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return profile.Record{}, false, nil
		}
		return profile.Record{}, false, fmt.Errorf("failed to read cached profile: %w", err)
	}

	var rec profile.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return profile.Record{}, false, fmt.Errorf("failed to decode cached profile: %w", err)
	}
	return rec, true, nil
}

func (o *Object) Save(ctx context.Context, rec profile.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = o.client.PutObject(ctx, o.bucket, o.objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to put cached profile: %w", err)
	}
	return nil
}
