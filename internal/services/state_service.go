// state_service.go implements StateService: transactional writes for
// states/provinces paired with event-log records, plus plain reads.
package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/geodata-registry/geodata-registry/internal/cache"
	"github.com/geodata-registry/geodata-registry/internal/db/models"
	"github.com/geodata-registry/geodata-registry/internal/db/repositories"
	"github.com/geodata-registry/geodata-registry/internal/domain"
)

// StateService handles state/province operations
type StateService struct {
	db    *sqlx.DB
	cache *cache.Cache
}

// NewStateService creates a new StateService
func NewStateService(db *sqlx.DB, c *cache.Cache) *StateService {
	return &StateService{db: db, cache: c}
}

// StateCreateInput holds validated, normalized input for state creation
type StateCreateInput struct {
	CountryID int64
	Name      string
	Code      string
}

// StateUpdateInput holds partial update input; nil fields are left untouched.
// CountryID is not updatable: a state cannot be moved between countries.
type StateUpdateInput struct {
	Name *string
	Code *string
}

// Create inserts a state and its CREATE event atomically. The parent country
// must exist and the code must be globally unique.
func (s *StateService) Create(ctx context.Context, input StateCreateInput, reqInfo RequestInfo) (*models.State, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	if err := ValidateCountryExists(ctx, tx, input.CountryID); err != nil {
		return nil, err
	}
	if err := ValidateStateCodeUnique(ctx, tx, input.Code, 0); err != nil {
		return nil, err
	}

	state := &models.State{CountryID: input.CountryID, Name: input.Name, Code: input.Code}
	if err := repositories.NewStateRepository(tx).Create(ctx, state); err != nil {
		if mapped := domain.MapUniqueViolation(err, input.Code); mapped != nil {
			return nil, mapped
		}
		// The parent can vanish between validation and insert; report it the
		// way the validator would have.
		if domain.IsForeignKeyViolation(err, domain.ConstraintStateCountryFK) {
			return nil, &domain.NotFoundError{EntityType: "Country", EntityID: input.CountryID}
		}
		return nil, err
	}

	event := newEventLog(models.EventTypeCreate, models.EntityTypeState, state.ID, reqInfo)
	if err := repositories.NewEventLogRepository(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if mapped := domain.MapUniqueViolation(err, input.Code); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to commit state create: %w", err)
	}

	recordMutation(models.EntityTypeState, models.EventTypeCreate)
	return state, nil
}

// Get retrieves a state by id, returning nil when it does not exist
func (s *StateService) Get(ctx context.Context, id int64) (*models.State, error) {
	state := &models.State{}
	if s.cache.Get(ctx, models.EntityTypeState, id, state) {
		return state, nil
	}

	state, err := repositories.NewStateRepository(s.db).GetByID(ctx, id)
	if err != nil || state == nil {
		return state, err
	}

	s.cache.Set(ctx, models.EntityTypeState, id, state)
	return state, nil
}

// List retrieves states in insertion order, optionally filtered to one
// country (countryID 0 lists all)
func (s *StateService) List(ctx context.Context, countryID int64, skip, limit int) ([]*models.State, error) {
	return repositories.NewStateRepository(s.db).List(ctx, countryID, limit, skip)
}

// Update applies a partial update and records an UPDATE event atomically.
// Returns NotFoundError when the state is absent.
func (s *StateService) Update(ctx context.Context, id int64, input StateUpdateInput, reqInfo RequestInfo) (*models.State, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	repo := repositories.NewStateRepository(tx)
	state, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, &domain.NotFoundError{EntityType: "State", EntityID: id}
	}

	if input.Code != nil && *input.Code != state.Code {
		if err := ValidateStateCodeUnique(ctx, tx, *input.Code, id); err != nil {
			return nil, err
		}
	}

	if input.Name != nil {
		state.Name = *input.Name
	}
	if input.Code != nil {
		state.Code = *input.Code
	}

	if err := repo.Update(ctx, state); err != nil {
		if mapped := domain.MapUniqueViolation(err, state.Code); mapped != nil {
			return nil, mapped
		}
		return nil, err
	}

	event := newEventLog(models.EventTypeUpdate, models.EntityTypeState, state.ID, reqInfo)
	if err := repositories.NewEventLogRepository(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if mapped := domain.MapUniqueViolation(err, state.Code); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to commit state update: %w", err)
	}

	s.cache.Invalidate(ctx, models.EntityTypeState, id)
	recordMutation(models.EntityTypeState, models.EventTypeUpdate)
	return state, nil
}

// Delete removes a state and records a DELETE event atomically. Deletion is
// refused with RestrictedDeletionError while cities still reference the
// state. Returns NotFoundError when the state is absent.
func (s *StateService) Delete(ctx context.Context, id int64, reqInfo RequestInfo) (*models.State, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	repo := repositories.NewStateRepository(tx)
	state, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, &domain.NotFoundError{EntityType: "State", EntityID: id}
	}

	hasCities, err := repo.HasCities(ctx, id)
	if err != nil {
		return nil, err
	}
	if hasCities {
		return nil, &domain.RestrictedDeletionError{EntityType: "State", EntityID: id, ChildType: "city"}
	}

	event := newEventLog(models.EventTypeDelete, models.EntityTypeState, state.ID, reqInfo)
	if err := repositories.NewEventLogRepository(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := repo.Delete(ctx, id); err != nil {
		if domain.IsForeignKeyViolation(err, domain.ConstraintCityStateFK) {
			return nil, &domain.RestrictedDeletionError{EntityType: "State", EntityID: id, ChildType: "city"}
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if domain.IsForeignKeyViolation(err, domain.ConstraintCityStateFK) {
			return nil, &domain.RestrictedDeletionError{EntityType: "State", EntityID: id, ChildType: "city"}
		}
		return nil, fmt.Errorf("failed to commit state delete: %w", err)
	}

	s.cache.Invalidate(ctx, models.EntityTypeState, id)
	recordMutation(models.EntityTypeState, models.EventTypeDelete)
	return state, nil
}
