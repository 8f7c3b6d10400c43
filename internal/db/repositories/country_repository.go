// country_repository.go implements CountryRepository, providing database
// queries for country rows. Every method runs against an sqlx.ExtContext, so
// a repository can be bound either to the connection pool or to an open
// transaction; the write services bind all their reads and writes to one
// transaction so validation, mutation, and event logging share a snapshot.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/geodata-registry/geodata-registry/internal/db/models"
)

// CountryRepository handles database operations for countries
type CountryRepository struct {
	ext sqlx.ExtContext
}

// NewCountryRepository creates a repository bound to a pool or transaction
func NewCountryRepository(ext sqlx.ExtContext) *CountryRepository {
	return &CountryRepository{ext: ext}
}

// Create inserts a new country and fills in its generated id
func (r *CountryRepository) Create(ctx context.Context, country *models.Country) error {
	query := `
		INSERT INTO countries (name, code)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.ext.QueryRowxContext(ctx, query, country.Name, country.Code).Scan(&country.ID)
	if err != nil {
		return fmt.Errorf("failed to create country: %w", err)
	}

	return nil
}

// GetByID retrieves a country by id, returning nil when no row exists
func (r *CountryRepository) GetByID(ctx context.Context, id int64) (*models.Country, error) {
	query := `SELECT id, name, code FROM countries WHERE id = $1`

	country := &models.Country{}
	err := sqlx.GetContext(ctx, r.ext, country, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get country: %w", err)
	}

	return country, nil
}

// GetByCode retrieves a country by its business code, optionally excluding one
// row by id (used by the update path so a country keeping its own code does
// not collide with itself). excludeID 0 means no exclusion.
func (r *CountryRepository) GetByCode(ctx context.Context, code string, excludeID int64) (*models.Country, error) {
	query := `SELECT id, name, code FROM countries WHERE code = $1 AND id <> $2`

	country := &models.Country{}
	err := sqlx.GetContext(ctx, r.ext, country, query, code, excludeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get country by code: %w", err)
	}

	return country, nil
}

// List retrieves countries in insertion order with offset/limit pagination
func (r *CountryRepository) List(ctx context.Context, limit, offset int) ([]*models.Country, error) {
	query := `SELECT id, name, code FROM countries ORDER BY id LIMIT $1 OFFSET $2`

	countries := make([]*models.Country, 0)
	if err := sqlx.SelectContext(ctx, r.ext, &countries, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}

	return countries, nil
}

// Update writes the full country row. Partial-update merging happens in the
// service layer against the freshly loaded row.
func (r *CountryRepository) Update(ctx context.Context, country *models.Country) error {
	query := `UPDATE countries SET name = $1, code = $2 WHERE id = $3`

	if _, err := r.ext.ExecContext(ctx, query, country.Name, country.Code, country.ID); err != nil {
		return fmt.Errorf("failed to update country: %w", err)
	}

	return nil
}

// Delete removes a country row. The states_country_id_fkey RESTRICT constraint
// rejects the delete while any state still references the country.
func (r *CountryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM countries WHERE id = $1`

	if _, err := r.ext.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete country: %w", err)
	}

	return nil
}

// HasStates reports whether any state references the country. Used as a
// pre-check so a blocked deletion fails before an event-log row is assembled.
func (r *CountryRepository) HasStates(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM states WHERE country_id = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.ext, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check country states: %w", err)
	}

	return exists, nil
}
