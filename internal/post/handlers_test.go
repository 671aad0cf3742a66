package post

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend-tripnick/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func testApp(svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	RegisterRoutes(app.Group("/posts"), svc)
	return app
}

func TestPostHandlersCreateReview(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT name FROM spots`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Mirante da Urca"))
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs((*string)(nil), int64(9), "review").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), time.Now()))
	mock.ExpectExec(`INSERT INTO review_posts`).
		WithArgs(int64(42), int64(7), intPtr(5)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	app := testApp(NewService(mock, nil))
	req := httptest.NewRequest(http.MethodPost, "/posts",
		bytes.NewReader([]byte(`{"type":"review","user_id":9,"spot_id":7,"rating":5}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var p Post
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if p.ID != 42 || p.Review == nil || p.Review.SpotName != "Mirante da Urca" {
		t.Fatalf("unexpected post payload: %+v", p)
	}
}

func TestPostHandlersCreateRejectsUnknownType(t *testing.T) {
	app := testApp(NewService(nil, nil))
	req := httptest.NewRequest(http.MethodPost, "/posts",
		bytes.NewReader([]byte(`{"type":"poll","user_id":9}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Error.Kind != string(apperr.KindInvalidArgument) {
		t.Fatalf("expected invalid_argument, got %q", body.Error.Kind)
	}
}

func TestPostHandlersGet(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, post_type, body, user_id, created_at`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_type", "body", "user_id", "created_at"}).
			AddRow(int64(42), "review", nil, int64(9), time.Now()))
	mock.ExpectQuery(`SELECT r.spot_id, r.rating, s.name`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"spot_id", "rating", "name"}).
			AddRow(int64(7), intPtr(5), "Mirante da Urca"))
	mock.ExpectQuery(`SELECT image_id, position, is_thumbnail`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"image_id", "position", "is_thumbnail"}))

	app := testApp(NewService(mock, nil))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/42", nil))
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestPostHandlersDeleteDryRun(t *testing.T) {
	mock := newMock(t)
	rating := 4

	mock.ExpectBegin()
	expectReviewAssessment(mock, 42, 7, &rating, "Mirante da Urca", 4.0, 3.5, 0)
	mock.ExpectRollback()

	app := testApp(NewService(mock, nil))
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/posts/42?dryRun=true", nil))
	if err != nil {
		t.Fatalf("dry run delete: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var report DeleteReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if !report.DryRun {
		t.Fatalf("expected dry_run report, got %+v", report)
	}
	if report.Review == nil || report.Review.AverageAfter != 3.5 {
		t.Fatalf("expected rating impact in report, got %+v", report.Review)
	}
}

func TestPostHandlersDeleteInvalidID(t *testing.T) {
	app := testApp(NewService(nil, nil))
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/posts/abc", nil))
	if err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPostHandlersDeleteNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, post_type, body, user_id, created_at`).
		WithArgs(int64(999999)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	app := testApp(NewService(mock, nil))
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/posts/999999", nil))
	if err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPostHandlersList(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, post_type, body, user_id, created_at`).
		WithArgs(int64(0), "review", 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_type", "body", "user_id", "created_at"}).
			AddRow(int64(42), "review", nil, int64(9), time.Now()))

	app := testApp(NewService(mock, nil))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts?type=review", nil))
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		t.Fatalf("decoding posts: %v", err)
	}
	if len(posts) != 1 || posts[0].Type != TypeReview {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}
