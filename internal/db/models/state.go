// Package models - state.go defines the State model for first-level country
// subdivisions (states, provinces, prefectures) keyed by an ISO 3166-2 code.
package models

// State represents a state/province belonging to a country
type State struct {
	ID        int64  `json:"id" db:"id"`
	CountryID int64  `json:"country_id" db:"country_id"`
	Name      string `json:"name" db:"name"`
	Code      string `json:"code" db:"code"` // ISO 3166-2, e.g. "JP-13", stored uppercase
}
