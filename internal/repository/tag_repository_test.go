package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/wavesrc/resource-center/internal/model"
)

func TestTagUpdate_NoopUpdateIsNotMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Same values within the same CURRENT_TIMESTAMP second affect 0
	// rows; the existence recheck keeps that from reading as not-found.
	mock.ExpectExec("UPDATE tags SET").
		WithArgs("golang", "golang", uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM tags WHERE id=").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	tag := &model.Tag{ID: 3, Name: "golang", Slug: "golang"}
	require.NoError(t, NewTagRepo(db).Update(context.Background(), tag))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagUpdate_MissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE tags SET").
		WithArgs("gone", "gone", uint64(88)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM tags WHERE id=").
		WithArgs(uint64(88)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	tag := &model.Tag{ID: 88, Name: "gone", Slug: "gone"}
	err = NewTagRepo(db).Update(context.Background(), tag)
	require.ErrorIs(t, err, ErrTagNotFound)
}
