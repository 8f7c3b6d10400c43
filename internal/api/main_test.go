package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// errDB is a sentinel error for DB failures in tests.
var errDB = errors.New("database error")

// newHandlerDB returns an sqlx pool backed by sqlmock with ordered
// expectations, shared by the per-handler router helpers.
func newHandlerDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return sqlxDB, mock
}

// expectEventInsert registers the event-log insert every successful mutation
// performs before committing.
func expectEventInsert(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("INSERT INTO event_logs").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
}

func jsonBody(v interface{}) *bytes.Buffer {
	b, _ := json.Marshal(v)
	return bytes.NewBuffer(b)
}

func getJSON(resp *httptest.ResponseRecorder) map[string]interface{} {
	var m map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &m)
	return m
}

func getJSONArray(resp *httptest.ResponseRecorder) []map[string]interface{} {
	var m []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &m)
	return m
}
