package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovzhu/mysite/internal/apperr"
)

func TestCategoryRepository_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("rename carries library documents along", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT name FROM categories").
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Fiction"))
		mock.ExpectExec("UPDATE categories SET name").
			WithArgs("Novels", "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE media_assets SET category").
			WithArgs("Novels", "Fiction").
			WillReturnResult(sqlmock.NewResult(0, 7))
		mock.ExpectCommit()

		require.NoError(t, repo.Rename(ctx, "c1", "Novels"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown category", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT name FROM categories").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"name"}))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Rename(ctx, "ghost", "Novels"), apperr.ErrNotFound)
	})
}

func TestCategoryRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while documents reference it", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT name FROM categories").
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Fiction"))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM media_assets").
			WithArgs("Fiction").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(ctx, "c1"), apperr.ErrValidation)
	})

	t.Run("empty category is removed", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT name FROM categories").
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Fiction"))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM media_assets").
			WithArgs("Fiction").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec("DELETE FROM categories").
			WithArgs("c1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(ctx, "c1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
