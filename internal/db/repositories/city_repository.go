// city_repository.go implements CityRepository, providing database queries for
// city rows. Cities carry the two-axis lifecycle (existence x activity):
// reads hide inactive rows unless includeInactive is set, and the active-code
// lookup backs the conditional uniqueness validator.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/geodata-registry/geodata-registry/internal/db/models"
)

// CityRepository handles database operations for cities
type CityRepository struct {
	ext sqlx.ExtContext
}

// NewCityRepository creates a repository bound to a pool or transaction
func NewCityRepository(ext sqlx.ExtContext) *CityRepository {
	return &CityRepository{ext: ext}
}

// Create inserts a new city and fills in its generated id
func (r *CityRepository) Create(ctx context.Context, city *models.City) error {
	query := `
		INSERT INTO cities (state_id, name, code, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.ext.QueryRowxContext(ctx, query,
		city.StateID, city.Name, city.Code, city.IsActive,
	).Scan(&city.ID)
	if err != nil {
		return fmt.Errorf("failed to create city: %w", err)
	}

	return nil
}

// GetByID retrieves a city by id, returning nil when no row exists. Inactive
// rows are treated as absent unless includeInactive is set.
func (r *CityRepository) GetByID(ctx context.Context, id int64, includeInactive bool) (*models.City, error) {
	query := `SELECT id, state_id, name, code, is_active FROM cities WHERE id = $1`
	if !includeInactive {
		query += ` AND is_active`
	}

	city := &models.City{}
	err := sqlx.GetContext(ctx, r.ext, city, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get city: %w", err)
	}

	return city, nil
}

// GetActiveByCode retrieves an active city by its business code, optionally
// excluding one row by id (for update-in-place checks). Inactive cities are
// never considered: their codes are free for reuse. excludeID 0 means no
// exclusion.
func (r *CityRepository) GetActiveByCode(ctx context.Context, code string, excludeID int64) (*models.City, error) {
	query := `
		SELECT id, state_id, name, code, is_active FROM cities
		WHERE code = $1 AND is_active AND id <> $2
	`

	city := &models.City{}
	err := sqlx.GetContext(ctx, r.ext, city, query, code, excludeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get city by code: %w", err)
	}

	return city, nil
}

// List retrieves cities in insertion order. stateID 0 lists across all
// states; inactive rows are hidden unless includeInactive is set.
func (r *CityRepository) List(ctx context.Context, stateID int64, limit, offset int, includeInactive bool) ([]*models.City, error) {
	query := `SELECT id, state_id, name, code, is_active FROM cities WHERE 1=1`
	args := make([]interface{}, 0, 4)
	paramIndex := 1

	if stateID != 0 {
		query += fmt.Sprintf(` AND state_id = $%d`, paramIndex)
		args = append(args, stateID)
		paramIndex++
	}
	if !includeInactive {
		query += ` AND is_active`
	}

	query += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	cities := make([]*models.City, 0)
	if err := sqlx.SelectContext(ctx, r.ext, &cities, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}

	return cities, nil
}

// Update writes the full city row
func (r *CityRepository) Update(ctx context.Context, city *models.City) error {
	query := `UPDATE cities SET state_id = $1, name = $2, code = $3, is_active = $4 WHERE id = $5`

	if _, err := r.ext.ExecContext(ctx, query,
		city.StateID, city.Name, city.Code, city.IsActive, city.ID,
	); err != nil {
		return fmt.Errorf("failed to update city: %w", err)
	}

	return nil
}

// Delete physically removes a city row. Deactivation (is_active = false) is a
// distinct update operation, not a delete.
func (r *CityRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM cities WHERE id = $1`

	if _, err := r.ext.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete city: %w", err)
	}

	return nil
}
