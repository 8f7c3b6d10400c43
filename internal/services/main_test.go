package services

import (
	"errors"
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// errDB is a sentinel database failure used across the service tests.
var errDB = errors.New("database failure")

// newServiceDB returns an sqlx pool backed by sqlmock. Expectations are
// ordered, so the tests double as proof of statement ordering inside the
// write transactions (validation, mutation, event log, commit).
func newServiceDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// testRequestInfo builds the request metadata the handlers would supply.
func testRequestInfo(method, path string) RequestInfo {
	status := http.StatusOK
	ip := "203.0.113.7"
	return RequestInfo{
		Method:     method,
		Path:       path,
		IPAddress:  &ip,
		StatusCode: &status,
	}
}

// expectationsMet fails the test when any configured expectation was not
// reached, which is how these tests assert that rolled-back paths never get
// as far as the event-log insert.
func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}
