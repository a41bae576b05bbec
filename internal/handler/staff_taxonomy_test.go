package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/wavesrc/resource-center/internal/repository"
)

func newTaxonomyHandler(t *testing.T) (*TaxonomyHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTaxonomyHandler(repository.NewCategoryRepo(db), repository.NewTagRepo(db)), mock
}

var mockCategoryCols = []string{"id", "name", "slug", "description", "created_at", "updated_at"}

func TestCreateCategory_SlugDerivedFromName(t *testing.T) {
	h, mock := newTaxonomyHandler(t)
	e := echo.New()
	e.POST("/staff/categories/", h.CreateCategory)

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO categories").
		WithArgs("Web Development", "web-development", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM categories WHERE id=").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(mockCategoryCols).
			AddRow(1, "Web Development", "web-development", nil, now, now))

	rec := postJSON(t, e, "/staff/categories/", `{"name":"Web Development"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got categoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "web-development", got.Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory_NameTooLong(t *testing.T) {
	h, _ := newTaxonomyHandler(t)
	e := echo.New()
	e.POST("/staff/categories/", h.CreateCategory)

	long := strings.Repeat("x", 31)
	rec := postJSON(t, e, "/staff/categories/", `{"name":"`+long+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "name is too long")
}

func TestCreateCategory_DescriptionTooLong(t *testing.T) {
	h, _ := newTaxonomyHandler(t)
	e := echo.New()
	e.POST("/staff/categories/", h.CreateCategory)

	long := strings.Repeat("x", 101)
	rec := postJSON(t, e, "/staff/categories/", `{"name":"Web","description":"`+long+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "description is too long")
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	h, mock := newTaxonomyHandler(t)
	e := echo.New()
	e.POST("/staff/categories/", h.CreateCategory)

	mock.ExpectExec("INSERT INTO categories").
		WillReturnError(sqlmockDuplicate("categories.name"))

	rec := postJSON(t, e, "/staff/categories/", `{"name":"Web Development"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "name already exists")
}

func TestDeleteCategory_StillReferenced(t *testing.T) {
	h, mock := newTaxonomyHandler(t)
	e := echo.New()
	e.DELETE("/staff/categories/:slug/", h.DeleteCategory)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM categories WHERE slug=").
		WithArgs("web-development").
		WillReturnRows(sqlmock.NewRows(mockCategoryCols).
			AddRow(2, "Web Development", "web-development", nil, now, now))
	mock.ExpectExec("DELETE FROM categories").
		WithArgs(uint64(2)).
		WillReturnError(errors.New("Error 1451 (23000): Cannot delete or update a parent row"))

	req := httptest.NewRequest(http.MethodDelete, "/staff/categories/web-development/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "still has resources")
}

func TestCreateTag_InvalidExplicitSlug(t *testing.T) {
	h, _ := newTaxonomyHandler(t)
	e := echo.New()
	e.POST("/staff/tags/", h.CreateTag)

	rec := postJSON(t, e, "/staff/tags/", `{"name":"Go","slug":"Not A Slug"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid slug")
}

func TestDeleteTag_DetachesJoinRows(t *testing.T) {
	h, mock := newTaxonomyHandler(t)
	e := echo.New()
	e.DELETE("/staff/tags/:slug/", h.DeleteTag)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM tags WHERE slug=").
		WithArgs("go").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}).
			AddRow(3, "Go", "go", now, now))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM book_tags").WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM video_tags").WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM tags").WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodDelete, "/staff/tags/go/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
