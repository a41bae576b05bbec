package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/wavesrc/resource-center/internal/repository"
)

func newBrowseHandler(t *testing.T) (*BrowseHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBrowseHandler(repository.NewBookRepo(db), repository.NewVideoRepo(db),
		repository.NewStatsRepo(db)), mock
}

var mockBookCols = []string{"b.id", "b.title", "b.slug", "b.summary", "b.category_id",
	"b.cover_image", "b.file_upload", "b.date_posted", "b.last_edit",
	"c.id", "c.name", "c.slug", "c.description", "c.created_at", "c.updated_at"}

func TestListBooks_PaginationAndDisplayTags(t *testing.T) {
	h, mock := newBrowseHandler(t)
	e := echo.New()
	e.GET("/books/", h.ListBooks)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM books`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))
	mock.ExpectQuery("SELECT (.+) FROM books b JOIN categories c").
		WithArgs(6, 6). // page 2, six per page
		WillReturnRows(sqlmock.NewRows(mockBookCols).
			AddRow(3, "Clean Code", "clean-code", nil, 1, "book_covers/book-cover.png",
				"books/cc.pdf", now, now, 1, "Software", "software", nil, now, now))
	mock.ExpectQuery("FROM book_tags j JOIN tags t").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "id", "name", "slug", "created_at", "updated_at"}).
			AddRow(3, 1, "craft", "craft", now, now).
			AddRow(3, 2, "go", "go", now, now).
			AddRow(3, 3, "sql", "sql", now, now).
			AddRow(3, 4, "web", "web", now, now))
	mock.ExpectQuery("FROM book_authors j JOIN users u").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "id", "first_name", "last_name", "email"}))

	req := httptest.NewRequest(http.MethodGet, "/books/?page=2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Books []struct {
			Title       string `json:"title"`
			DisplayTags string `json:"display_tags"`
		} `json:"books"`
		Pagination struct {
			Page        int   `json:"page"`
			PageSize    int   `json:"page_size"`
			TotalItems  int64 `json:"total_items"`
			TotalPages  int   `json:"total_pages"`
			HasNext     bool  `json:"has_next"`
			HasPrevious bool  `json:"has_previous"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Books, 1)
	require.Equal(t, "craft, go, sql ...", resp.Books[0].DisplayTags)
	require.Equal(t, 2, resp.Pagination.Page)
	require.Equal(t, 6, resp.Pagination.PageSize)
	require.Equal(t, int64(13), resp.Pagination.TotalItems)
	require.Equal(t, 3, resp.Pagination.TotalPages)
	require.True(t, resp.Pagination.HasNext)
	require.True(t, resp.Pagination.HasPrevious)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBook_NotFound(t *testing.T) {
	h, mock := newBrowseHandler(t)
	e := echo.New()
	e.GET("/books/:slug/", h.GetBook)

	mock.ExpectQuery("SELECT (.+) FROM books b JOIN categories c (.+) WHERE b.slug=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(mockBookCols))

	req := httptest.NewRequest(http.MethodGet, "/books/missing/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHome_ReturnsSiteCounts(t *testing.T) {
	h, mock := newBrowseHandler(t)
	e := echo.New()
	e.GET("/", h.Home)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM books`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM videos`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(40))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"num_books":12,"num_videos":5,"num_users":40}`, rec.Body.String())
}
