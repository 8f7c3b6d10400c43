package services

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/geodata-registry/geodata-registry/internal/domain"
)

var cityCols = []string{"id", "state_id", "name", "code", "is_active"}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCityCreate_ActiveChecksCodeUniqueness(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM states.*WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(stateCols).AddRow(int64(1), int64(1), "Tokyo", "TYO"))
	mock.ExpectQuery("SELECT.*FROM cities.*WHERE code.*is_active").
		WithArgs("131130", int64(0)).
		WillReturnRows(sqlmock.NewRows(cityCols))
	mock.ExpectQuery("INSERT INTO cities").
		WithArgs(int64(1), "Shibuya", "131130", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	expectEventLogInsert(mock)
	mock.ExpectCommit()

	city, err := svc.Create(context.Background(),
		CityCreateInput{StateID: 1, Name: "Shibuya", Code: "131130", IsActive: true},
		testRequestInfo("POST", "/api/v1/cities"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if city.ID != 5 {
		t.Errorf("ID = %d, want 5", city.ID)
	}
	expectationsMet(t, mock)
}

func TestCityCreate_InactiveSkipsCodeCheck(t *testing.T) {
	// An inactive city never occupies a code, so the uniqueness validator is
	// skipped entirely.
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM states.*WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(stateCols).AddRow(int64(1), int64(1), "Tokyo", "TYO"))
	mock.ExpectQuery("INSERT INTO cities").
		WithArgs(int64(1), "Old Town", "131130", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))
	expectEventLogInsert(mock)
	mock.ExpectCommit()

	if _, err := svc.Create(context.Background(),
		CityCreateInput{StateID: 1, Name: "Old Town", Code: "131130", IsActive: false},
		testRequestInfo("POST", "/api/v1/cities")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectationsMet(t, mock)
}

func TestCityCreate_DuplicateActiveCode(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM states.*WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(stateCols).AddRow(int64(1), int64(1), "Tokyo", "TYO"))
	mock.ExpectQuery("SELECT.*FROM cities.*WHERE code.*is_active").
		WithArgs("131130", int64(0)).
		WillReturnRows(sqlmock.NewRows(cityCols).AddRow(int64(9), int64(1), "Shibuya", "131130", true))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(),
		CityCreateInput{StateID: 1, Name: "Shibuya 2", Code: "131130", IsActive: true},
		testRequestInfo("POST", "/api/v1/cities"))

	var dup *domain.DuplicateCodeError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateCodeError", err)
	}
	expectationsMet(t, mock)
}

func TestCityCreate_MissingState(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT.*FROM states.*WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(stateCols))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(),
		CityCreateInput{StateID: 99, Name: "Shibuya", Code: "131130", IsActive: true},
		testRequestInfo("POST", "/api/v1/cities"))

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if nf.EntityType != "State" {
		t.Errorf("EntityType = %s, want State", nf.EntityType)
	}
	expectationsMet(t, mock)
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestCityGet_ActiveOnlyHidesInactive(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectQuery(`SELECT.*FROM cities.*WHERE id = \$1 AND is_active`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(cityCols))

	city, err := svc.Get(context.Background(), 2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if city != nil {
		t.Error("expected nil for inactive city without includeInactive")
	}
}

func TestCityGet_IncludeInactive(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectQuery(`SELECT.*FROM cities.*WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(cityCols).AddRow(int64(2), int64(1), "Old Town", "131999", false))

	city, err := svc.Get(context.Background(), 2, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if city == nil {
		t.Fatal("expected inactive city with includeInactive=true")
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestCityUpdate_DeactivationSkipsCodeCheck(t *testing.T) {
	// Deactivating a city frees its code; no uniqueness query should run.
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT.*FROM cities.*WHERE id = \$1 AND is_active`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cityCols).AddRow(int64(5), int64(1), "Shibuya", "131130", true))
	mock.ExpectExec("UPDATE cities SET").
		WithArgs(int64(1), "Shibuya", "131130", false, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectEventLogInsert(mock)
	mock.ExpectCommit()

	city, err := svc.Update(context.Background(), 5,
		CityUpdateInput{IsActive: boolPtr(false)},
		testRequestInfo("PUT", "/api/v1/cities/5"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if city.IsActive {
		t.Error("IsActive = true after deactivation")
	}
	expectationsMet(t, mock)
}

func TestCityUpdate_ReactivationChecksCode(t *testing.T) {
	// Reactivating re-occupies the code, so the validator runs even though
	// the code itself did not change.
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT.*FROM cities.*WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cityCols).AddRow(int64(5), int64(1), "Shibuya", "131130", false))
	mock.ExpectQuery("SELECT.*FROM cities.*WHERE code.*is_active").
		WithArgs("131130", int64(5)).
		WillReturnRows(sqlmock.NewRows(cityCols).AddRow(int64(9), int64(1), "New Shibuya", "131130", true))
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), 5,
		CityUpdateInput{IsActive: boolPtr(true)},
		testRequestInfo("PUT", "/api/v1/cities/5"), true)

	var dup *domain.DuplicateCodeError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateCodeError", err)
	}
	expectationsMet(t, mock)
}

func TestCityUpdate_CodeChangeWhileStayingInactive(t *testing.T) {
	// A code change on a city that stays inactive needs no uniqueness check.
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT.*FROM cities.*WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cityCols).AddRow(int64(5), int64(1), "Old Town", "131999", false))
	mock.ExpectExec("UPDATE cities SET").
		WithArgs(int64(1), "Old Town", "131998", false, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectEventLogInsert(mock)
	mock.ExpectCommit()

	city, err := svc.Update(context.Background(), 5,
		CityUpdateInput{Code: strPtr("131998")},
		testRequestInfo("PUT", "/api/v1/cities/5"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if city.Code != "131998" {
		t.Errorf("Code = %s, want ANC", city.Code)
	}
	expectationsMet(t, mock)
}

func TestCityUpdate_InactiveNotFoundWithoutFlag(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT.*FROM cities.*WHERE id = \$1 AND is_active`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cityCols))
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), 5,
		CityUpdateInput{Name: strPtr("x")},
		testRequestInfo("PUT", "/api/v1/cities/5"), false)

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	expectationsMet(t, mock)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestCityDelete_WritesEventBeforeDelete(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT.*FROM cities.*WHERE id = \$1 AND is_active`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cityCols).AddRow(int64(5), int64(1), "Shibuya", "131130", true))
	expectEventLogInsert(mock)
	mock.ExpectExec("DELETE FROM cities").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	city, err := svc.Delete(context.Background(), 5,
		testRequestInfo("DELETE", "/api/v1/cities/5"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if city.ID != 5 {
		t.Errorf("deleted city id = %d, want 5", city.ID)
	}
	expectationsMet(t, mock)
}

func TestCityDelete_InactiveRequiresFlag(t *testing.T) {
	db, mock := newServiceDB(t)
	svc := NewCityService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT.*FROM cities.*WHERE id = \$1 AND is_active`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cityCols))
	mock.ExpectRollback()

	_, err := svc.Delete(context.Background(), 5,
		testRequestInfo("DELETE", "/api/v1/cities/5"), false)

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	expectationsMet(t, mock)
}
