// Package middleware contains HTTP middleware for the users API.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the API routes.
//   - rayid: assigns each request a ray id, stores it in the Fiber locals and echoes
//     it in the X-Ray-ID response header for log correlation.
package middleware
