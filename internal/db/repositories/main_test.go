package repositories

import (
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// errDB is a sentinel database failure used across the repository tests.
var errDB = errors.New("database failure")

// newMockDB returns an sqlx wrapper over a sqlmock connection. Repositories
// accept sqlx.ExtContext, so the same wrapper stands in for both the pool and
// an open transaction.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}
