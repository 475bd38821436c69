package scrapbook_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/evfilters/scrapbook-api/internal/api/router"
	"github.com/evfilters/scrapbook-api/internal/scrapbook"
	"github.com/evfilters/scrapbook-api/internal/store/scrapbooks"
)

const (
	selectDocSQL = `SELECT doc, version, created_at, updated_at FROM scrapbook_documents WHERE user_id = $1`
	seedSQL      = `INSERT INTO scrapbook_documents (user_id, doc, version) VALUES ($1, $2, 1) ON CONFLICT (user_id) DO NOTHING RETURNING created_at, updated_at`
	lockDocSQL   = `SELECT doc FROM scrapbook_documents WHERE user_id = $1 FOR UPDATE`
	deleteSQL    = `DELETE FROM scrapbook_documents WHERE user_id = $1`
)

func newTestServer(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	st := scrapbooks.New(db, scrapbooks.NewMemoryCache(time.Minute))
	return router.Router(st, time.Now()), mock
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetSeedsDefaultBook(t *testing.T) {
	h, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectDocSQL)).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(seedSQL)).
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))

	rec := doJSON(t, h, http.MethodGet, "/api/book/u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body)
	}

	var b scrapbook.Book
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.UserID != "u1" || b.Version != 1 || len(b.Pages) != 1 {
		t.Fatalf("unexpected seeded book: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSaveRejectsMalformedJSON(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/book/u1", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid JSON body") {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestSaveRejectsInvalidDocument(t *testing.T) {
	h, _ := newTestServer(t)

	b := scrapbook.DefaultBook("u1")
	b.Pages[0].Elements[0].FontSize = 100
	raw, _ := json.Marshal(b)

	rec := doJSON(t, h, http.MethodPost, "/api/book/u1", string(raw))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body)
	}
}

func TestPatchPageMissingBookIs404(t *testing.T) {
	h, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockDocSQL)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	page, _ := json.Marshal(scrapbook.Page{Elements: []scrapbook.Element{
		scrapbook.NewTextElement("hi"),
	}})
	rec := doJSON(t, h, http.MethodPatch, "/api/book/ghost/page/0", string(page))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "book not found") {
		t.Fatalf("body = %s", rec.Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPatchPageRejectsNonNumericIndex(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPatch, "/api/book/u1/page/abc", `{"elements":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteBook(t *testing.T) {
	h, mock := newTestServer(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, h, http.MethodDelete, "/api/book/u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "book deleted") {
		t.Fatalf("body = %s", rec.Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRejectsOverlongUserID(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/book/"+strings.Repeat("a", 101), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
