package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovzhu/mysite/internal/models"
)

func TestEngagementRepository_ToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("first toggle creates the like", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEngagementRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT like_id FROM likes").
			WithArgs("u1", models.ContentPost, "p1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO likes").
			WithArgs(sqlmock.AnyArg(), "u1", models.ContentPost, "p1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		liked, err := repo.ToggleLike(ctx, "u1", models.ContentPost, "p1")
		require.NoError(t, err)
		assert.True(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second toggle removes it", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEngagementRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT like_id FROM likes").
			WithArgs("u1", models.ContentPost, "p1").
			WillReturnRows(sqlmock.NewRows([]string{"like_id"}).AddRow("l1"))
		mock.ExpectExec("DELETE FROM likes").
			WithArgs("l1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		liked, err := repo.ToggleLike(ctx, "u1", models.ContentPost, "p1")
		require.NoError(t, err)
		assert.False(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEngagementRepository_Comments(t *testing.T) {
	ctx := context.Background()

	t.Run("add assigns id and timestamp", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEngagementRepository(db)

		mock.ExpectExec("INSERT INTO comments").
			WithArgs(sqlmock.AnyArg(), "u1", models.ContentPhoto, "a1", "nice shot", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		comment := &models.Comment{
			UserID:      "u1",
			ContentType: models.ContentPhoto,
			ContentID:   "a1",
			Content:     "nice shot",
		}
		require.NoError(t, repo.AddComment(ctx, comment))
		assert.NotEmpty(t, comment.CommentID)
		assert.False(t, comment.CreatedAt.IsZero())
	})

	t.Run("count likes", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEngagementRepository(db)

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM likes").
			WithArgs(models.ContentPost, "p1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountLikes(ctx, models.ContentPost, "p1")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func TestEngagementRepository_DeleteForContent(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewEngagementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM likes WHERE content_type").
		WithArgs(models.ContentPhoto, "a1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM comments WHERE content_type").
		WithArgs(models.ContentPhoto, "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteForContent(ctx, models.ContentPhoto, "a1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
