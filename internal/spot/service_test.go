package spot

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-tripnick/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

var errQuery = errors.New("query error")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestCreateAndGetSpot(t *testing.T) {
	mock := newMock(t)
	createdAt := time.Now()

	mock.ExpectQuery(`INSERT INTO spots`).
		WithArgs("Cristo Redentor", "Brazil", "Rio de Janeiro", "monument", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), createdAt))

	svc := NewService(mock)
	sp, err := svc.CreateSpot(context.Background(), Spot{
		Name:     "Cristo Redentor",
		Country:  "Brazil",
		City:     "Rio de Janeiro",
		Category: "monument",
	})
	if err != nil {
		t.Fatalf("create spot: %v", err)
	}
	if sp.ID != 5 {
		t.Fatalf("expected id 5, got %d", sp.ID)
	}

	mock.ExpectQuery(`SELECT id, name, country, city, category, description, image_id, created_at`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "country", "city", "category", "description", "image_id", "created_at"}).
			AddRow(int64(5), "Cristo Redentor", "Brazil", "Rio de Janeiro", "monument", nil, nil, createdAt))

	loaded, err := svc.GetSpot(context.Background(), 5)
	if err != nil {
		t.Fatalf("get spot: %v", err)
	}
	if loaded.Name != "Cristo Redentor" || loaded.Description != nil {
		t.Fatalf("unexpected spot loaded: %+v", loaded)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSpotMissingFields(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.CreateSpot(context.Background(), Spot{Name: "Praia do Forte"})
	if !apperr.IsKind(err, apperr.KindInvalidArgument) {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
}

func TestCreateSpotDuplicate(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO spots`).
		WithArgs("Pelourinho", "Brazil", "Salvador", "historic", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	svc := NewService(mock)
	_, err := svc.CreateSpot(context.Background(), Spot{
		Name: "Pelourinho", Country: "Brazil", City: "Salvador", Category: "historic",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetSpotNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, country, city, category, description, image_id, created_at`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock)
	_, err := svc.GetSpot(context.Background(), 404)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestUpdateSpotPatchFields(t *testing.T) {
	mock := newMock(t)
	desc := "pier with sunset view"

	mock.ExpectQuery(`SELECT id, name, country, city, category, description, image_id, created_at`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "country", "city", "category", "description", "image_id", "created_at"}).
			AddRow(int64(3), "Pier 7", "Brazil", "Fortaleza", "beach", nil, nil, time.Now()))

	mock.ExpectExec(`UPDATE spots`).
		WithArgs(int64(3), "Pier 7", "Brazil", "Fortaleza", "viewpoint", &desc, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock)
	updated, err := svc.UpdateSpot(context.Background(), 3, Spot{Category: "viewpoint", Description: &desc})
	if err != nil {
		t.Fatalf("update spot: %v", err)
	}
	if updated.Category != "viewpoint" || updated.Description == nil {
		t.Fatalf("expected patched fields, got %+v", updated)
	}
	if updated.Name != "Pier 7" {
		t.Fatalf("expected untouched name, got %q", updated.Name)
	}
}

func TestDeleteSpot(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM spots`).WithArgs(int64(3)).WillReturnResult(pgxmock.NewResult("DELETE", 1))

	svc := NewService(mock)
	if err := svc.DeleteSpot(context.Background(), 3); err != nil {
		t.Fatalf("delete spot: %v", err)
	}

	mock.ExpectExec(`DELETE FROM spots`).WithArgs(int64(404)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	if err := svc.DeleteSpot(context.Background(), 404); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not_found for missing spot, got %v", err)
	}
}

func TestListSpotsFilters(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, country, city, category, description, image_id, created_at`).
		WithArgs("Brazil", "", "beach", 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "country", "city", "category", "description", "image_id", "created_at"}).
			AddRow(int64(1), "Praia do Rosa", "Brazil", "Imbituba", "beach", nil, nil, time.Now()).
			AddRow(int64(2), "Jericoacoara", "Brazil", "Jijoca", "beach", nil, nil, time.Now()))

	svc := NewService(mock)
	spots, err := svc.ListSpots(context.Background(), Filter{Country: "Brazil", Category: "beach"})
	if err != nil {
		t.Fatalf("list spots: %v", err)
	}
	if len(spots) != 2 {
		t.Fatalf("expected 2 spots, got %d", len(spots))
	}
}

func TestListSpotsClampsLimit(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, country, city, category, description, image_id, created_at`).
		WithArgs("", "", "", 100, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "country", "city", "category", "description", "image_id", "created_at"}))

	svc := NewService(mock)
	if _, err := svc.ListSpots(context.Background(), Filter{Limit: 5000, Offset: -3}); err != nil {
		t.Fatalf("list spots: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListSpotsQueryError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, country, city, category, description, image_id, created_at`).
		WithArgs("", "", "", 20, 0).
		WillReturnError(errQuery)

	svc := NewService(mock)
	if _, err := svc.ListSpots(context.Background(), Filter{}); !apperr.IsKind(err, apperr.KindInternal) {
		t.Fatalf("expected internal, got %v", err)
	}
}
