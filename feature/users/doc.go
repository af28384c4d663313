// Package users serves the account records the profile client syncs against.
//
// Routes:
//
//	POST /api/users           register an address (409 if it exists)
//	GET  /api/users/:address  fetch an account (404 if unknown)
//	PUT  /api/users/:address  update name, email and whatsappNumber
//
// Accounts are stored through GORM and the table is migrated when the feature
// loads.
package users
