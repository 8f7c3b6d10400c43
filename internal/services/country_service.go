// country_service.go implements CountryService: transactional writes for
// countries paired with event-log records, plus plain reads.
package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/geodata-registry/geodata-registry/internal/cache"
	"github.com/geodata-registry/geodata-registry/internal/db/models"
	"github.com/geodata-registry/geodata-registry/internal/db/repositories"
	"github.com/geodata-registry/geodata-registry/internal/domain"
	"github.com/geodata-registry/geodata-registry/internal/telemetry"
)

// CountryService handles country operations. Reads run against the pool (and
// the optional cache); writes each open one transaction spanning validation,
// the entity mutation, and the event-log insert.
type CountryService struct {
	db    *sqlx.DB
	cache *cache.Cache
}

// NewCountryService creates a new CountryService
func NewCountryService(db *sqlx.DB, c *cache.Cache) *CountryService {
	return &CountryService{db: db, cache: c}
}

// CountryCreateInput holds validated, normalized input for country creation
type CountryCreateInput struct {
	Name string
	Code string
}

// CountryUpdateInput holds partial update input; nil fields are left untouched
type CountryUpdateInput struct {
	Name *string
	Code *string
}

// Create inserts a country and its CREATE event atomically
func (s *CountryService) Create(ctx context.Context, input CountryCreateInput, reqInfo RequestInfo) (*models.Country, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	if err := ValidateCountryCodeUnique(ctx, tx, input.Code, 0); err != nil {
		return nil, err
	}

	country := &models.Country{Name: input.Name, Code: input.Code}
	if err := repositories.NewCountryRepository(tx).Create(ctx, country); err != nil {
		// A racing create can slip past the validator; the unique constraint
		// catches it here and is reported as the same domain error.
		if mapped := domain.MapUniqueViolation(err, input.Code); mapped != nil {
			return nil, mapped
		}
		return nil, err
	}

	event := newEventLog(models.EventTypeCreate, models.EntityTypeCountry, country.ID, reqInfo)
	if err := repositories.NewEventLogRepository(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if mapped := domain.MapUniqueViolation(err, input.Code); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to commit country create: %w", err)
	}

	recordMutation(models.EntityTypeCountry, models.EventTypeCreate)
	return country, nil
}

// Get retrieves a country by id, returning nil when it does not exist
func (s *CountryService) Get(ctx context.Context, id int64) (*models.Country, error) {
	country := &models.Country{}
	if s.cache.Get(ctx, models.EntityTypeCountry, id, country) {
		return country, nil
	}

	country, err := repositories.NewCountryRepository(s.db).GetByID(ctx, id)
	if err != nil || country == nil {
		return country, err
	}

	s.cache.Set(ctx, models.EntityTypeCountry, id, country)
	return country, nil
}

// List retrieves countries in insertion order with offset/limit pagination
func (s *CountryService) List(ctx context.Context, skip, limit int) ([]*models.Country, error) {
	return repositories.NewCountryRepository(s.db).List(ctx, limit, skip)
}

// Update applies a partial update and records an UPDATE event atomically.
// Only supplied fields change; the code-uniqueness validator runs only when
// the code actually changes. Returns NotFoundError when the country is absent.
func (s *CountryService) Update(ctx context.Context, id int64, input CountryUpdateInput, reqInfo RequestInfo) (*models.Country, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	repo := repositories.NewCountryRepository(tx)
	country, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if country == nil {
		return nil, &domain.NotFoundError{EntityType: "Country", EntityID: id}
	}

	if input.Code != nil && *input.Code != country.Code {
		if err := ValidateCountryCodeUnique(ctx, tx, *input.Code, id); err != nil {
			return nil, err
		}
	}

	if input.Name != nil {
		country.Name = *input.Name
	}
	if input.Code != nil {
		country.Code = *input.Code
	}

	if err := repo.Update(ctx, country); err != nil {
		if mapped := domain.MapUniqueViolation(err, country.Code); mapped != nil {
			return nil, mapped
		}
		return nil, err
	}

	event := newEventLog(models.EventTypeUpdate, models.EntityTypeCountry, country.ID, reqInfo)
	if err := repositories.NewEventLogRepository(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if mapped := domain.MapUniqueViolation(err, country.Code); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to commit country update: %w", err)
	}

	s.cache.Invalidate(ctx, models.EntityTypeCountry, id)
	recordMutation(models.EntityTypeCountry, models.EventTypeUpdate)
	return country, nil
}

// Delete removes a country and records a DELETE event atomically. Deletion is
// refused with RestrictedDeletionError while states still reference the
// country; the refusal happens before any event-log row is written, and the
// FK RESTRICT constraint backs the pre-check against races. Returns
// NotFoundError when the country is absent.
func (s *CountryService) Delete(ctx context.Context, id int64, reqInfo RequestInfo) (*models.Country, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	repo := repositories.NewCountryRepository(tx)
	country, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if country == nil {
		return nil, &domain.NotFoundError{EntityType: "Country", EntityID: id}
	}

	hasStates, err := repo.HasStates(ctx, id)
	if err != nil {
		return nil, err
	}
	if hasStates {
		return nil, &domain.RestrictedDeletionError{EntityType: "Country", EntityID: id, ChildType: "state"}
	}

	// Event first, delete second: the event row captures the id while the
	// entity still exists, and the shared transaction guarantees the event is
	// discarded if the delete fails.
	event := newEventLog(models.EventTypeDelete, models.EntityTypeCountry, country.ID, reqInfo)
	if err := repositories.NewEventLogRepository(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := repo.Delete(ctx, id); err != nil {
		if domain.IsForeignKeyViolation(err, domain.ConstraintStateCountryFK) {
			return nil, &domain.RestrictedDeletionError{EntityType: "Country", EntityID: id, ChildType: "state"}
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if domain.IsForeignKeyViolation(err, domain.ConstraintStateCountryFK) {
			return nil, &domain.RestrictedDeletionError{EntityType: "Country", EntityID: id, ChildType: "state"}
		}
		return nil, fmt.Errorf("failed to commit country delete: %w", err)
	}

	s.cache.Invalidate(ctx, models.EntityTypeCountry, id)
	recordMutation(models.EntityTypeCountry, models.EventTypeDelete)
	return country, nil
}

// newEventLog assembles the outbox row for a mutation from the request
// metadata supplied by the transport layer.
func newEventLog(eventType, entityType string, entityID int64, reqInfo RequestInfo) *models.EventLog {
	return &models.EventLog{
		EventType:     eventType,
		EntityType:    entityType,
		EntityID:      entityID,
		RequestMethod: reqInfo.Method,
		RequestPath:   reqInfo.Path,
		RequestBody:   reqInfo.Body,
		UserID:        reqInfo.UserID,
		IPAddress:     reqInfo.IPAddress,
		StatusCode:    reqInfo.StatusCode,
	}
}

// recordMutation updates the mutation counters after a successful commit
func recordMutation(entityType, eventType string) {
	telemetry.EntityMutationsTotal.WithLabelValues(entityType, eventType).Inc()
	telemetry.EventLogWritesTotal.Inc()
}
