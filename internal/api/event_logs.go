// event_logs.go implements the read-only audit trail endpoints. The event log
// is written exclusively by the write services inside their transactions;
// these handlers only query it.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/geodata-registry/geodata-registry/internal/db/repositories"
)

// EventLogHandlers handles event log query endpoints
type EventLogHandlers struct {
	logs *repositories.EventLogRepository
}

// NewEventLogHandlers creates a new EventLogHandlers instance
func NewEventLogHandlers(db *sqlx.DB) *EventLogHandlers {
	return &EventLogHandlers{logs: repositories.NewEventLogRepository(db)}
}

// @Summary      List event logs
// @Description  Query the mutation audit trail, newest first, with optional filters.
// @Tags         EventLogs
// @Produce      json
// @Param        event_type   query  string  false  "CREATE, UPDATE, or DELETE"
// @Param        entity_type  query  string  false  "country, state, or city"
// @Param        entity_id    query  int     false  "Entity id"
// @Param        start_date   query  string  false  "RFC 3339 lower bound on created_at"
// @Param        end_date     query  string  false  "RFC 3339 upper bound on created_at"
// @Param        skip         query  int     false  "Rows to skip (default 0)"
// @Param        limit        query  int     false  "Max rows to return (default 100, max 1000)"
// @Success      200  {object}  map[string]interface{}  "event_logs: []models.EventLog, pagination: {skip, limit, total}"
// @Router       /api/v1/event-logs [get]
// ListEventLogsHandler lists event logs with optional filters
// GET /api/v1/event-logs
func (h *EventLogHandlers) ListEventLogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		filters := repositories.EventLogFilters{}
		if v := c.Query("event_type"); v != "" {
			filters.EventType = &v
		}
		if v := c.Query("entity_type"); v != "" {
			filters.EntityType = &v
		}
		if v := c.Query("entity_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity_id"})
				return
			}
			filters.EntityID = &id
		}
		if v := c.Query("start_date"); v != "" {
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date (expected RFC 3339)"})
				return
			}
			filters.StartDate = &ts
		}
		if v := c.Query("end_date"); v != "" {
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date (expected RFC 3339)"})
				return
			}
			filters.EndDate = &ts
		}

		logs, total, err := h.logs.List(c.Request.Context(), filters, limit, skip)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"event_logs": logs,
			"pagination": gin.H{
				"skip":  skip,
				"limit": limit,
				"total": total,
			},
		})
	}
}

// @Summary      Get an event log entry
// @Tags         EventLogs
// @Produce      json
// @Param        id  path  int  true  "Event log ID"
// @Success      200  {object}  models.EventLog
// @Failure      404  {object}  map[string]interface{}  "Event log not found"
// @Router       /api/v1/event-logs/{id} [get]
// GetEventLogHandler retrieves a single event log entry
// GET /api/v1/event-logs/:id
func (h *EventLogHandlers) GetEventLogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		log, err := h.logs.GetByID(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if log == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event log not found"})
			return
		}

		c.JSON(http.StatusOK, log)
	}
}
