// Package server holds the users API server configuration.
//
// The cmd package owns startup; this package only defines the listen port, the
// optional API key and the CORS allow list, and the small helpers derived from them.
package server
