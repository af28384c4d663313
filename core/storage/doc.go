// Package storage wraps the S3-compatible object store (MinIO) behind a small
// Client interface.
//
// The object-backed profile cache keeps one JSON document per cache key in the
// configured bucket, which lets a profile cache follow the user between machines.
// The interface exists so tests can use the testify mock in storage/mocks.
package storage
