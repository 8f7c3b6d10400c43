package services

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/geodata-registry/geodata-registry/internal/domain"
)

var stateCols = []string{"id", "country_id", "name", "code"}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestStateCreate_CommitsEntityAndEventTogether(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewStateService(db, nil)

	mock.ExpectBegin()
	// Parent country must exist.
	mock.ExpectQuery("SELECT.*FROM countries.*WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(countryCols).AddRow(int64(1), "Japan", "JP"))
	// State code must be globally unique.
	mock.ExpectQuery("SELECT.*FROM states.*WHERE code").
		WithArgs("JP-13", int64(0)).
		WillReturnRows(sqlmock.NewRows(stateCols))
	mock.ExpectQuery("INSERT INTO states").
		WithArgs(int64(1), "Tokyo", "JP-13").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	expectEventLogInsert(mock)
	mock.ExpectCommit()

	state, err := svc.Create(context.Background(),
		StateCreateInput{CountryID: 1, Name: "Tokyo", Code: "JP-13"},
		testRequestInfo("POST", "/api/v1/states"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.ID != 3 {
		t.Errorf("ID = %d, want 3", state.ID)
	}
	expectationsMet(t, mock)
}

func TestStateCreate_MissingCountry(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewStateService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM countries.*WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(countryCols))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(),
		StateCreateInput{CountryID: 99, Name: "Tokyo", Code: "JP-13"},
		testRequestInfo("POST", "/api/v1/states"))

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if nf.EntityType != "Country" {
		t.Errorf("EntityType = %s, want Country", nf.EntityType)
	}
	expectationsMet(t, mock)
}

func TestStateCreate_DuplicateCode(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewStateService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM countries.*WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(countryCols).AddRow(int64(1), "Japan", "JP"))
	mock.ExpectQuery("SELECT.*FROM states.*WHERE code").
		WithArgs("JP-13", int64(0)).
		WillReturnRows(sqlmock.NewRows(stateCols).AddRow(int64(2), int64(1), "Tokyo", "JP-13"))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(),
		StateCreateInput{CountryID: 1, Name: "Tokyo", Code: "JP-13"},
		testRequestInfo("POST", "/api/v1/states"))

	var dup *domain.DuplicateCodeError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateCodeError", err)
	}
	expectationsMet(t, mock)
}

func TestStateCreate_CountryVanishesBeforeInsert(t *testing.T) {
	// The parent passes validation but a racing delete removes it; the FK
	// violation on insert is reported as the not-found the validator would
	// have raised.
	db, mock := newServiceDB(t)
	svc := NewStateService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM countries.*WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(countryCols).AddRow(int64(1), "Japan", "JP"))
	mock.ExpectQuery("SELECT.*FROM states.*WHERE code").
		WithArgs("JP-13", int64(0)).
		WillReturnRows(sqlmock.NewRows(stateCols))
	mock.ExpectQuery("INSERT INTO states").
		WillReturnError(&pq.Error{Code: "23503", Constraint: domain.ConstraintStateCountryFK})
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(),
		StateCreateInput{CountryID: 1, Name: "Tokyo", Code: "JP-13"},
		testRequestInfo("POST", "/api/v1/states"))

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	expectationsMet(t, mock)
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestStateUpdate_PartialCodeOnly(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewStateService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM states.*WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(stateCols).AddRow(int64(3), int64(1), "Tokyo", "JP-13"))
	mock.ExpectQuery("SELECT.*FROM states.*WHERE code").
		WithArgs("JP-14", int64(3)).
		WillReturnRows(sqlmock.NewRows(stateCols))
	mock.ExpectExec("UPDATE states SET").
		WithArgs(int64(1), "Tokyo", "JP-14", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectEventLogInsert(mock)
	mock.ExpectCommit()

	code := "JP-14"
	state, err := svc.Update(context.Background(), 3,
		StateUpdateInput{Code: &code},
		testRequestInfo("PUT", "/api/v1/states/3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Code != "JP-14" || state.Name != "Tokyo" {
		t.Errorf("got %q/%q, want Tokyo/JP-14", state.Name, state.Code)
	}
	expectationsMet(t, mock)
}

func TestStateUpdate_NotFound(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewStateService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM states.*WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(stateCols))
	mock.ExpectRollback()

	name := "x"
	_, err := svc.Update(context.Background(), 42,
		StateUpdateInput{Name: &name},
		testRequestInfo("PUT", "/api/v1/states/42"))

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	expectationsMet(t, mock)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestStateDelete_WritesEventBeforeDelete(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewStateService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM states.*WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(stateCols).AddRow(int64(3), int64(1), "Tokyo", "JP-13"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	expectEventLogInsert(mock)
	mock.ExpectExec("DELETE FROM states").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	state, err := svc.Delete(context.Background(), 3, testRequestInfo("DELETE", "/api/v1/states/3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.ID != 3 {
		t.Errorf("deleted state id = %d, want 3", state.ID)
	}
	expectationsMet(t, mock)
}

func TestStateDelete_RestrictedByCities(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewStateService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM states.*WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(stateCols).AddRow(int64(3), int64(1), "Tokyo", "JP-13"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.Delete(context.Background(), 3, testRequestInfo("DELETE", "/api/v1/states/3"))

	var restricted *domain.RestrictedDeletionError
	if !errors.As(err, &restricted) {
		t.Fatalf("error = %v, want RestrictedDeletionError", err)
	}
	if restricted.ChildType != "city" {
		t.Errorf("ChildType = %s, want city", restricted.ChildType)
	}
	expectationsMet(t, mock)
}
