// helpers.go provides the shared glue between handlers and services: request
// metadata capture for the event log, pagination parsing, and the translation
// of domain errors into HTTP status codes.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/geodata-registry/geodata-registry/internal/domain"
	"github.com/geodata-registry/geodata-registry/internal/services"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// userIDHeader carries the caller identity recorded into the event log. The
// registry performs no authentication itself; an upstream gateway is expected
// to set this header after authenticating the caller.
const userIDHeader = "X-User-ID"

// requestInfo assembles the event-log metadata for a mutation. body is the
// bound request payload (nil for deletes); it is re-serialized so the event
// log stores the validated, normalized input rather than the raw bytes.
// statusCode is the status the handler will return on success.
func requestInfo(c *gin.Context, body interface{}, statusCode int) services.RequestInfo {
	info := services.RequestInfo{
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		StatusCode: &statusCode,
	}

	if body != nil {
		if raw, err := json.Marshal(body); err == nil {
			s := string(raw)
			info.Body = &s
		}
	}

	if ip := c.ClientIP(); ip != "" {
		info.IPAddress = &ip
	}

	if userID := c.GetHeader(userIDHeader); userID != "" {
		info.UserID = &userID
	}

	return info
}

// parsePagination reads skip/limit query parameters. Non-integer values are
// rejected with a 400 response (returning ok=false); out-of-range values are
// clamped: negative skip to 0, limit below 1 to the default, limit above the
// maximum to the maximum.
func parsePagination(c *gin.Context) (skip, limit int, ok bool) {
	var err error
	skip, err = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skip parameter"})
		return 0, 0, false
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return 0, 0, false
	}

	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit, true
}

// parseID reads a positive integer path parameter, returning false (and
// responding 400) when it is malformed
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// respondDomainError maps a service error to the protocol status code
// contract: DuplicateCode → 409, NotFound → 404, RestrictedDeletion → 400.
// Anything else is an unexpected storage failure: logged server-side with
// full context, returned to the caller as a generic 500.
func respondDomainError(c *gin.Context, err error) {
	var dup *domain.DuplicateCodeError
	if errors.As(err, &dup) {
		c.JSON(http.StatusConflict, gin.H{"error": dup.Error()})
		return
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var restricted *domain.RestrictedDeletionError
	if errors.As(err, &restricted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": restricted.Error()})
		return
	}

	slog.Error("unexpected storage error",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
}
