// validators.go holds the pre-write domain validators. Each one reads
// committed state through a repository bound to the caller's transaction and
// either returns nil or a domain error precise enough for the transport layer
// to render. Validators narrow but cannot close the race window between two
// concurrent writers passing the same check; the schema constraints are the
// final authority, and commit-time violations are mapped back to the same
// error kinds (see internal/domain).
package services

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/geodata-registry/geodata-registry/internal/db/repositories"
	"github.com/geodata-registry/geodata-registry/internal/domain"
)

// ValidateCountryExists fails with NotFoundError when no country has the id
func ValidateCountryExists(ctx context.Context, ext sqlx.ExtContext, countryID int64) error {
	country, err := repositories.NewCountryRepository(ext).GetByID(ctx, countryID)
	if err != nil {
		return err
	}
	if country == nil {
		return &domain.NotFoundError{EntityType: "Country", EntityID: countryID}
	}
	return nil
}

// ValidateStateExists fails with NotFoundError when no state has the id
func ValidateStateExists(ctx context.Context, ext sqlx.ExtContext, stateID int64) error {
	state, err := repositories.NewStateRepository(ext).GetByID(ctx, stateID)
	if err != nil {
		return err
	}
	if state == nil {
		return &domain.NotFoundError{EntityType: "State", EntityID: stateID}
	}
	return nil
}

// ValidateCountryCodeUnique fails with DuplicateCodeError when another country
// already carries the code. excludeID skips the row being updated.
func ValidateCountryCodeUnique(ctx context.Context, ext sqlx.ExtContext, code string, excludeID int64) error {
	existing, err := repositories.NewCountryRepository(ext).GetByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &domain.DuplicateCodeError{EntityType: "Country", Code: code}
	}
	return nil
}

// ValidateStateCodeUnique fails with DuplicateCodeError when another state
// already carries the code. excludeID skips the row being updated.
func ValidateStateCodeUnique(ctx context.Context, ext sqlx.ExtContext, code string, excludeID int64) error {
	existing, err := repositories.NewStateRepository(ext).GetByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &domain.DuplicateCodeError{EntityType: "State", Code: code}
	}
	return nil
}

// ValidateActiveCityCodeUnique fails with DuplicateCodeError when an active
// city already carries the code. Inactive cities are never considered, so an
// abolished municipality's code can be reassigned. excludeID skips the row
// being updated.
func ValidateActiveCityCodeUnique(ctx context.Context, ext sqlx.ExtContext, code string, excludeID int64) error {
	existing, err := repositories.NewCityRepository(ext).GetActiveByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &domain.DuplicateCodeError{EntityType: "Active city", Code: code}
	}
	return nil
}
