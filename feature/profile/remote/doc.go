// Package remote is the client of the users API, the remote profile store.
//
// Only name, email and WhatsApp number are sent, as PUT /api/users/{address}.
// Requests use the Fiber HTTP agent and carry the X-API-Key header when a key is
// configured. Non-2xx responses become *StatusError; the error message the API
// put in its JSON body is kept for display.
package remote
