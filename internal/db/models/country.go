// Package models - country.go defines the Country model, the root of the
// geographic reference hierarchy, keyed by an ISO 3166-1 alpha-2 code.
package models

// Country represents a country in the reference hierarchy
type Country struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Code string `json:"code" db:"code"` // ISO 3166-1 alpha-2, stored uppercase
}
