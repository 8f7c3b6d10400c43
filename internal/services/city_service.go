// city_service.go implements CityService: transactional writes for cities
// paired with event-log records, plus activity-aware reads.
//
// Cities have a two-axis lifecycle: existence (row present or deleted) and
// activity (is_active). Deactivation is an update, not a delete, and the
// code-uniqueness rule applies only among active rows.
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

// CityService handles city operations
type CityService struct {
	db    *sqlx.DB
	cache *cache.Cache
}

// NewCityService creates a new CityService
func NewCityService(db *sqlx.DB, c *cache.Cache) *CityService {
	return &CityService{db: db, cache: c}
}

// CityCreateInput holds validated input for city creation
type CityCreateInput struct {
	StateID  int64
	Name     string
	Code     string
	IsActive bool
}

// CityUpdateInput holds partial update input; nil fields are left untouched.
// StateID is not updatable: a city cannot be moved between states.
type CityUpdateInput struct {
	Name     *string
	Code     *string
	IsActive *bool
}

// Create inserts a city and its CREATE event atomically. The parent state
// must exist, and when the city is created active its code must not collide
// with another active city. An inactive city may reuse any code.
func (s *CityService) Create(ctx context.Context, input CityCreateInput, reqInfo RequestInfo) (*models.City, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	if err := ValidateStateExists(ctx, tx, input.StateID); err != nil {
		return nil, err
	}
	if input.IsActive {
		if err := ValidateActiveCityCodeUnique(ctx, tx, input.Code, 0); err != nil {
			return nil, err
		}
	}

	city := &models.City{
		StateID:  input.StateID,
		Name:     input.Name,
		Code:     input.Code,
		IsActive: input.IsActive,
	}
	if err := repositories.NewCityRepository(tx).Create(ctx, city); err != nil {
		if mapped := domain.MapUniqueViolation(err, input.Code); mapped != nil {
			return nil, mapped
		}
		if domain.IsForeignKeyViolation(err, domain.ConstraintCityStateFK) {
			return nil, &domain.NotFoundError{EntityType: "State", EntityID: input.StateID}
		}
		return nil, err
	}

	event := newEventLog(models.EventTypeCreate, models.EntityTypeCity, city.ID, reqInfo)
	if err := repositories.NewEventLogRepository(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if mapped := domain.MapUniqueViolation(err, input.Code); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to commit city create: %w", err)
	}

	recordMutation(models.EntityTypeCity, models.EventTypeCreate)
	return city, nil
}

// Get retrieves a city by id, returning nil when it does not exist. An
// inactive city is reported as absent unless includeInactive is set, so the
// cache only serves the includeInactive path for rows known to be active.
func (s *CityService) Get(ctx context.Context, id int64, includeInactive bool) (*models.City, error) {
	city := &models.City{}
	if s.cache.Get(ctx, models.EntityTypeCity, id, city) {
		if city.IsActive || includeInactive {
			return city, nil
		}
		return nil, nil
	}

	city, err := repositories.NewCityRepository(s.db).GetByID(ctx, id, includeInactive)
	if err != nil || city == nil {
		return city, err
	}

	s.cache.Set(ctx, models.EntityTypeCity, id, city)
	return city, nil
}

// List retrieves cities in insertion order, optionally filtered to one state
// (stateID 0 lists all). Inactive cities are hidden unless includeInactive.
func (s *CityService) List(ctx context.Context, stateID int64, skip, limit int, includeInactive bool) ([]*models.City, error) {
	return repositories.NewCityRepository(s.db).List(ctx, stateID, limit, skip, includeInactive)
}

// Update applies a partial update and records an UPDATE event atomically.
// The active-code validator runs when the code changes and also when an
// inactive city is being activated, since activation can introduce a
// collision even with an unchanged code. Returns NotFoundError when the city
// is absent (or inactive, unless includeInactive).
func (s *CityService) Update(ctx context.Context, id int64, input CityUpdateInput, reqInfo RequestInfo, includeInactive bool) (*models.City, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	repo := repositories.NewCityRepository(tx)
	city, err := repo.GetByID(ctx, id, includeInactive)
	if err != nil {
		return nil, err
	}
	if city == nil {
		return nil, &domain.NotFoundError{EntityType: "City", EntityID: id}
	}

	codeChanged := input.Code != nil && *input.Code != city.Code
	activating := input.IsActive != nil && *input.IsActive && !city.IsActive
	willBeActive := city.IsActive
	if input.IsActive != nil {
		willBeActive = *input.IsActive
	}

	if (codeChanged || activating) && willBeActive {
		newCode := city.Code
		if input.Code != nil {
			newCode = *input.Code
		}
		if err := ValidateActiveCityCodeUnique(ctx, tx, newCode, id); err != nil {
			return nil, err
		}
	}

	if input.Name != nil {
		city.Name = *input.Name
	}
	if input.Code != nil {
		city.Code = *input.Code
	}
	if input.IsActive != nil {
		city.IsActive = *input.IsActive
	}

	if err := repo.Update(ctx, city); err != nil {
		if mapped := domain.MapUniqueViolation(err, city.Code); mapped != nil {
			return nil, mapped
		}
		return nil, err
	}

	event := newEventLog(models.EventTypeUpdate, models.EntityTypeCity, city.ID, reqInfo)
	if err := repositories.NewEventLogRepository(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if mapped := domain.MapUniqueViolation(err, city.Code); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to commit city update: %w", err)
	}

	s.cache.Invalidate(ctx, models.EntityTypeCity, id)
	recordMutation(models.EntityTypeCity, models.EventTypeUpdate)
	return city, nil
}

// Delete physically removes a city and records a DELETE event atomically,
// capturing the id before the row disappears. Returns NotFoundError when the
// city is absent (or inactive, unless includeInactive).
func (s *CityService) Delete(ctx context.Context, id int64, reqInfo RequestInfo, includeInactive bool) (*models.City, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	repo := repositories.NewCityRepository(tx)
	city, err := repo.GetByID(ctx, id, includeInactive)
	if err != nil {
		return nil, err
	}
	if city == nil {
		return nil, &domain.NotFoundError{EntityType: "City", EntityID: id}
	}

	event := newEventLog(models.EventTypeDelete, models.EntityTypeCity, city.ID, reqInfo)
	if err := repositories.NewEventLogRepository(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit city delete: %w", err)
	}

	s.cache.Invalidate(ctx, models.EntityTypeCity, id)
	recordMutation(models.EntityTypeCity, models.EventTypeDelete)
	return city, nil
}
