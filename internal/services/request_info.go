// Package services implements the write and read operations for the
// geographic reference hierarchy. Every write runs domain validation, the
// entity mutation, and the event-log insert inside one database transaction
// so the business change and its audit record commit together or not at all.
package services

// RequestInfo carries the request metadata the transport layer captured for
// the mutation being performed. The services treat it as opaque and persist
// it verbatim into the event-log row.
type RequestInfo struct {
	Method     string
	Path       string
	Body       *string
	IPAddress  *string
	UserID     *string
	StatusCode *int
}
