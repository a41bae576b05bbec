package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/wavesrc/resource-center/internal/model"
)

var bookCols = []string{"b.id", "b.title", "b.slug", "b.summary", "b.category_id",
	"b.cover_image", "b.file_upload", "b.date_posted", "b.last_edit",
	"c.id", "c.name", "c.slug", "c.description", "c.created_at", "c.updated_at"}

var tagJoinCols = []string{"book_id", "id", "name", "slug", "created_at", "updated_at"}
var authorJoinCols = []string{"book_id", "id", "first_name", "last_name", "email"}

func TestBookList_NewestFirstWithLinks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM books`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	// first page of six, newest posted first
	rows := sqlmock.NewRows(bookCols).
		AddRow(12, "Newest", "newest", nil, 1, "book_covers/book-cover.png", "books/newest.pdf",
			now, now, 1, "Web Development", "web-development", nil, now, now).
		AddRow(11, "Older", "older", "a summary", 1, "book_covers/book-cover.png", "books/older.pdf",
			now.Add(-time.Hour), now, 1, "Web Development", "web-development", nil, now, now)
	mock.ExpectQuery("SELECT (.+) FROM books b JOIN categories c (.+) ORDER BY b.date_posted DESC, b.id DESC LIMIT (.+) OFFSET").
		WithArgs(model.BookPageSize, 0).
		WillReturnRows(rows)

	mock.ExpectQuery("FROM book_tags j JOIN tags t").
		WithArgs(uint64(12), uint64(11)).
		WillReturnRows(sqlmock.NewRows(tagJoinCols).
			AddRow(12, 3, "api", "api", now, now).
			AddRow(12, 4, "go", "go", now, now))
	mock.ExpectQuery("FROM book_authors j JOIN users u").
		WithArgs(uint64(12), uint64(11)).
		WillReturnRows(sqlmock.NewRows(authorJoinCols).
			AddRow(11, 7, "Jane", "Doe", "jane@example.com"))

	books, total, err := NewBookRepo(db).List(context.Background(), 1, model.BookPageSize)
	require.NoError(t, err)
	require.Equal(t, int64(8), total)
	require.Len(t, books, 2)
	require.Equal(t, "Newest", books[0].Title)
	require.Equal(t, "Web Development", books[0].Category.Name)
	require.Equal(t, "api, go", model.DisplayTags(books[0].Tags))
	require.Empty(t, books[0].Authors)
	require.Len(t, books[1].Authors, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookGetBySlug_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM books b JOIN categories c (.+) WHERE b.slug=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bookCols))

	_, err = NewBookRepo(db).GetBySlug(context.Background(), "missing")
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookCreate_LinksCommitWithParent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO books").
		WithArgs("Go Basics", "go-basics", nil, uint64(1), "book_covers/book-cover.png", "books/go.pdf").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("DELETE FROM book_authors").WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO book_authors").WithArgs(uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM book_tags").WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO book_tags").WithArgs(uint64(5), uint64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	b := &model.Book{Title: "Go Basics", Slug: "go-basics", CategoryID: 1, FileUpload: "books/go.pdf"}
	err = NewBookRepo(db).Create(context.Background(), b, []uint64{7}, []uint64{3})
	require.NoError(t, err)
	require.Equal(t, uint64(5), b.ID)
	// empty cover falls back to the placeholder
	require.Equal(t, model.DefaultBookCover, b.CoverImage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookCreate_DuplicateSlugRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO books").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'go-basics' for key 'books.slug'"))
	mock.ExpectRollback()

	b := &model.Book{Title: "Go Basics", Slug: "go-basics", CategoryID: 1, FileUpload: "books/go.pdf"}
	err = NewBookRepo(db).Create(context.Background(), b, nil, nil)
	require.ErrorIs(t, err, ErrSlugExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookCreate_UnknownCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO books").
		WillReturnError(errors.New("Error 1452 (23000): Cannot add or update a child row: a foreign key constraint fails"))
	mock.ExpectRollback()

	b := &model.Book{Title: "Orphan", Slug: "orphan", CategoryID: 99, FileUpload: "books/o.pdf"}
	err = NewBookRepo(db).Create(context.Background(), b, nil, nil)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}
