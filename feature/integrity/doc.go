// Package integrity provides health and consistency checks.
//
// # Server Checks
//
//   - Schema: the users table has every column the account model maps to.
//   - Storage: the bucket the object cache backend writes to exists.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all server checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//
// # Profile Drift
//
// DriftChecker compares the locally cached profile against the users API
// account for the contact fields and role, and lists each differing field.
// It is used by the CLI and never modifies the cache.
package integrity
