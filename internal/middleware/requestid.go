package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the HTTP header used to propagate the request identifier.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key under which the request ID is stored.
	RequestIDKey = "request_id"

	// maxRequestIDLength caps inbound identifiers. Anything longer is replaced
	// with a fresh UUID so a caller cannot stuff arbitrary payloads into logs.
	maxRequestIDLength = 128
)

// RequestIDMiddleware ensures every request carries an identifier.
//
// An inbound X-Request-ID set by an upstream load balancer or gateway is
// reused as long as it fits maxRequestIDLength; otherwise a new UUID v4 is
// generated. The ID is stored in gin.Context under RequestIDKey, retrievable
// via RequestID, and echoed back in the response header so clients can quote
// it when reporting a failed call.
//
// Register this before any middleware or handler that logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

// RequestID returns the identifier assigned to the current request, or the
// empty string when RequestIDMiddleware is not installed.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
