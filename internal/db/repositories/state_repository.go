// state_repository.go implements StateRepository, providing database queries
// for state/province rows including country-scoped listing.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/geodata-registry/geodata-registry/internal/db/models"
)

// StateRepository handles database operations for states/provinces
type StateRepository struct {
	ext sqlx.ExtContext
}

// NewStateRepository creates a repository bound to a pool or transaction
func NewStateRepository(ext sqlx.ExtContext) *StateRepository {
	return &StateRepository{ext: ext}
}

// Create inserts a new state and fills in its generated id
func (r *StateRepository) Create(ctx context.Context, state *models.State) error {
	query := `
		INSERT INTO states (country_id, name, code)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.ext.QueryRowxContext(ctx, query, state.CountryID, state.Name, state.Code).Scan(&state.ID)
	if err != nil {
		return fmt.Errorf("failed to create state: %w", err)
	}

	return nil
}

// GetByID retrieves a state by id, returning nil when no row exists
func (r *StateRepository) GetByID(ctx context.Context, id int64) (*models.State, error) {
	query := `SELECT id, country_id, name, code FROM states WHERE id = $1`

	state := &models.State{}
	err := sqlx.GetContext(ctx, r.ext, state, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	return state, nil
}

// GetByCode retrieves a state by its business code, optionally excluding one
// row by id (for update-in-place checks). excludeID 0 means no exclusion.
func (r *StateRepository) GetByCode(ctx context.Context, code string, excludeID int64) (*models.State, error) {
	query := `SELECT id, country_id, name, code FROM states WHERE code = $1 AND id <> $2`

	state := &models.State{}
	err := sqlx.GetContext(ctx, r.ext, state, query, code, excludeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get state by code: %w", err)
	}

	return state, nil
}

// List retrieves states in insertion order. countryID 0 lists all states;
// a non-zero countryID restricts the listing to that country.
func (r *StateRepository) List(ctx context.Context, countryID int64, limit, offset int) ([]*models.State, error) {
	states := make([]*models.State, 0)

	if countryID != 0 {
		query := `
			SELECT id, country_id, name, code FROM states
			WHERE country_id = $1
			ORDER BY id LIMIT $2 OFFSET $3
		`
		if err := sqlx.SelectContext(ctx, r.ext, &states, query, countryID, limit, offset); err != nil {
			return nil, fmt.Errorf("failed to list states: %w", err)
		}
		return states, nil
	}

	query := `SELECT id, country_id, name, code FROM states ORDER BY id LIMIT $1 OFFSET $2`
	if err := sqlx.SelectContext(ctx, r.ext, &states, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}

	return states, nil
}

// Update writes the full state row
func (r *StateRepository) Update(ctx context.Context, state *models.State) error {
	query := `UPDATE states SET country_id = $1, name = $2, code = $3 WHERE id = $4`

	if _, err := r.ext.ExecContext(ctx, query, state.CountryID, state.Name, state.Code, state.ID); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}

	return nil
}

// Delete removes a state row. The cities_state_id_fkey RESTRICT constraint
// rejects the delete while any city still references the state.
func (r *StateRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM states WHERE id = $1`

	if _, err := r.ext.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}

	return nil
}

// HasCities reports whether any city references the state
func (r *StateRepository) HasCities(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM cities WHERE state_id = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.ext, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check state cities: %w", err)
	}

	return exists, nil
}
