// Package cache implements the local profile cache backends.
//
//   - sqlite: one row in a profile_cache table, through GORM (the default).
//   - object: one JSON document in an S3/MinIO bucket.
//   - memory: process memory, for tests and throwaway sessions.
//
// All of them hold a single record under the configured key and satisfy
// profile.Cache. Open picks the backend from configuration.
package cache
