// event_log_repository.go implements EventLogRepository, the append-only store
// for mutation events. Create is always invoked inside the same transaction
// as the entity mutation it records; List/GetByID serve the read-only audit
// trail endpoint and run against the pool.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/geodata-registry/geodata-registry/internal/db/models"
)

// EventLogRepository handles event log database operations
type EventLogRepository struct {
	ext sqlx.ExtContext
}

// NewEventLogRepository creates a repository bound to a pool or transaction
func NewEventLogRepository(ext sqlx.ExtContext) *EventLogRepository {
	return &EventLogRepository{ext: ext}
}

// EventLogFilters contains filters for querying event logs
type EventLogFilters struct {
	EventType  *string
	EntityType *string
	EntityID   *int64
	StartDate  *time.Time
	EndDate    *time.Time
}

// Create appends a new event log row and fills in the generated id and
// created_at. processing_status defaults to "completed" when unset; no relay
// consumes the table today, the field exists for a future publisher.
func (r *EventLogRepository) Create(ctx context.Context, log *models.EventLog) error {
	if log.ProcessingStatus == "" {
		log.ProcessingStatus = "completed"
	}

	query := `
		INSERT INTO event_logs (event_type, entity_type, entity_id, request_method,
			request_path, request_body, user_id, ip_address, status_code, processing_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.ext.QueryRowxContext(ctx, query,
		log.EventType,
		log.EntityType,
		log.EntityID,
		log.RequestMethod,
		log.RequestPath,
		log.RequestBody,
		log.UserID,
		log.IPAddress,
		log.StatusCode,
		log.ProcessingStatus,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event log: %w", err)
	}

	return nil
}

// List retrieves event logs with optional filters and pagination, newest first
func (r *EventLogRepository) List(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int, error) {
	countQuery := `SELECT COUNT(*) FROM event_logs WHERE 1=1`
	query := `
		SELECT id, event_type, entity_type, entity_id, request_method, request_path,
		       request_body, user_id, ip_address, created_at, status_code,
		       processing_status, processed_at
		FROM event_logs
		WHERE 1=1
	`

	args := make([]interface{}, 0)
	paramIndex := 1

	if filters.EventType != nil {
		countQuery += fmt.Sprintf(` AND event_type = $%d`, paramIndex)
		query += fmt.Sprintf(` AND event_type = $%d`, paramIndex)
		args = append(args, *filters.EventType)
		paramIndex++
	}

	if filters.EntityType != nil {
		countQuery += fmt.Sprintf(` AND entity_type = $%d`, paramIndex)
		query += fmt.Sprintf(` AND entity_type = $%d`, paramIndex)
		args = append(args, *filters.EntityType)
		paramIndex++
	}

	if filters.EntityID != nil {
		countQuery += fmt.Sprintf(` AND entity_id = $%d`, paramIndex)
		query += fmt.Sprintf(` AND entity_id = $%d`, paramIndex)
		args = append(args, *filters.EntityID)
		paramIndex++
	}

	if filters.StartDate != nil {
		countQuery += fmt.Sprintf(` AND created_at >= $%d`, paramIndex)
		query += fmt.Sprintf(` AND created_at >= $%d`, paramIndex)
		args = append(args, *filters.StartDate)
		paramIndex++
	}

	if filters.EndDate != nil {
		countQuery += fmt.Sprintf(` AND created_at <= $%d`, paramIndex)
		query += fmt.Sprintf(` AND created_at <= $%d`, paramIndex)
		args = append(args, *filters.EndDate)
		paramIndex++
	}

	var total int
	if err := sqlx.GetContext(ctx, r.ext, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count event logs: %w", err)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	logs := make([]*models.EventLog, 0)
	if err := sqlx.SelectContext(ctx, r.ext, &logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list event logs: %w", err)
	}

	return logs, total, nil
}

// GetByID retrieves a single event log row, returning nil when no row exists
func (r *EventLogRepository) GetByID(ctx context.Context, id int64) (*models.EventLog, error) {
	query := `
		SELECT id, event_type, entity_type, entity_id, request_method, request_path,
		       request_body, user_id, ip_address, created_at, status_code,
		       processing_status, processed_at
		FROM event_logs
		WHERE id = $1
	`

	log := &models.EventLog{}
	err := sqlx.GetContext(ctx, r.ext, log, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event log: %w", err)
	}

	return log, nil
}
