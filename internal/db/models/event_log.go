// Package models - event_log.go defines the EventLog model recording every
// entity mutation together with the request metadata that caused it. Rows are
// written in the same transaction as the mutation (transactional outbox) and
// are never updated afterwards. The processing_status/processed_at fields are
// reserved for a future asynchronous relay; nothing drains the table today.
package models

import "time"

// Event types recorded in the event log.
const (
	EventTypeCreate = "CREATE"
	EventTypeUpdate = "UPDATE"
	EventTypeDelete = "DELETE"
)

// Entity type labels used in event_logs.entity_type and in error messages.
const (
	EntityTypeCountry = "country"
	EntityTypeState   = "state"
	EntityTypeCity    = "city"
)

// EventLog represents one audit record for a create/update/delete of a
// reference entity. entity_id is captured before deletion for DELETE events
// since the entity row is gone by the time a consumer reads the log.
type EventLog struct {
	ID               int64      `json:"id" db:"id"`
	EventType        string     `json:"event_type" db:"event_type"`
	EntityType       string     `json:"entity_type" db:"entity_type"`
	EntityID         int64      `json:"entity_id" db:"entity_id"`
	RequestMethod    string     `json:"request_method" db:"request_method"`
	RequestPath      string     `json:"request_path" db:"request_path"`
	RequestBody      *string    `json:"request_body,omitempty" db:"request_body"`
	UserID           *string    `json:"user_id,omitempty" db:"user_id"`
	IPAddress        *string    `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	StatusCode       *int       `json:"status_code,omitempty" db:"status_code"`
	ProcessingStatus string     `json:"processing_status" db:"processing_status"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty" db:"processed_at"`
}
