// Package models - city.go defines the City model for municipalities within a
// state. Cities carry an is_active flag because municipalities get merged or
// abolished over time; an inactive city's code may be reused by a new one, so
// code uniqueness holds only among active rows.
package models

// City represents a city/municipality belonging to a state
type City struct {
	ID       int64  `json:"id" db:"id"`
	StateID  int64  `json:"state_id" db:"state_id"`
	Name     string `json:"name" db:"name"`
	Code     string `json:"code" db:"code"` // 6-digit local government code
	IsActive bool   `json:"is_active" db:"is_active"`
}
