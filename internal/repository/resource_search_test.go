package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestSearch_VideoWithTitleAndTagFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM videos x JOIN categories c`).
		WithArgs("%docker%", "devops").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT x.id, x.title, x.slug, x.summary, c.name, x.url, x.date_posted FROM videos x").
		WithArgs("%docker%", "devops", 9, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "summary", "name", "url", "date_posted"}).
			AddRow(3, "Docker Deep Dive", "docker-deep-dive", nil, "DevOps",
				"https://example.com/watch/3", now))

	rows, total, err := NewSearchRepo(db).Search(context.Background(), ResourceSearchQuery{
		Kind:     "video",
		Title:    "Docker",
		Tag:      "devops",
		Page:     1,
		PageSize: 9,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	require.Equal(t, "video", rows[0].Kind)
	require.Equal(t, "https://example.com/watch/3", rows[0].Payload)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_NoFiltersListsEverything(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM books x JOIN categories c (.+) WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT x.id, (.+) FROM books x (.+) LIMIT (.+) OFFSET").
		WithArgs(6, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "summary", "name", "file_upload", "date_posted"}))

	rows, total, err := NewSearchRepo(db).Search(context.Background(), ResourceSearchQuery{
		Kind: "book", Page: 1, PageSize: 6,
	})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, rows)
}
