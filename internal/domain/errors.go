// Package domain defines the error taxonomy for reference-data mutations.
//
// The first three error types are anticipated business outcomes: validators
// raise them before any write happens, and the transport layer maps them to
// precise HTTP status codes. Anything else escaping a service call is an
// unexpected storage failure and is reported generically to callers.
//
// The mapping helpers close the validate-then-write race: two callers can both
// pass validation before either commits, in which case the database constraint
// rejects the loser at commit time. The pq error is translated back into the
// same domain error the validator would have produced, so callers see a
// consistent error kind regardless of which side caught the conflict.
package domain

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// NotFoundError indicates a required entity (or a referenced parent) does not exist.
type NotFoundError struct {
	EntityType string
	EntityID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.EntityType, e.EntityID)
}

// DuplicateCodeError indicates a business code collision under the entity's
// uniqueness scope (global for countries and states, active-rows-only for cities).
type DuplicateCodeError struct {
	EntityType string
	Code       string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("%s with code '%s' already exists", e.EntityType, e.Code)
}

// RestrictedDeletionError indicates a parent entity cannot be deleted while
// child rows still reference it.
type RestrictedDeletionError struct {
	EntityType string
	EntityID   int64
	ChildType  string
}

func (e *RestrictedDeletionError) Error() string {
	return fmt.Sprintf("cannot delete %s with id %d: %s rows still reference it",
		e.EntityType, e.EntityID, e.ChildType)
}

// PostgreSQL error classes relevant to commit-time constraint failures.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Constraint names created by the schema migrations. Postgres reports these in
// pq.Error.Constraint, which lets a generic integrity violation be mapped back
// to the precise domain error.
const (
	ConstraintCountryCode    = "countries_code_key"
	ConstraintStateCode      = "states_code_key"
	ConstraintCityCodeActive = "cities_code_active_unique"
	ConstraintStateCountryFK = "states_country_id_fkey"
	ConstraintCityStateFK    = "cities_state_id_fkey"
)

// MapUniqueViolation translates a commit-time unique-constraint violation into
// the DuplicateCodeError the validator would have produced had it seen the
// competing row. code is the business code the caller was writing. Returns nil
// when err is not a unique violation on a known constraint, in which case the
// caller should surface the failure as an unexpected storage error.
func MapUniqueViolation(err error, code string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pgUniqueViolation {
		return nil
	}

	switch pqErr.Constraint {
	case ConstraintCountryCode:
		return &DuplicateCodeError{EntityType: "Country", Code: code}
	case ConstraintStateCode:
		return &DuplicateCodeError{EntityType: "State", Code: code}
	case ConstraintCityCodeActive:
		return &DuplicateCodeError{EntityType: "Active city", Code: code}
	}
	return nil
}

// IsForeignKeyViolation reports whether err is a foreign-key violation on the
// named constraint. What that means depends on the operation: on a parent
// DELETE it means child rows still reference the row (restrict semantics); on
// a child INSERT it means the parent vanished between validation and commit.
// The service layer owns that interpretation.
func IsForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) &&
		pqErr.Code == pgForeignKeyViolation &&
		pqErr.Constraint == constraint
}
