package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func userColumns() []string {
	return []string{
		"user_id", "username", "email", "password_hash", "role",
		"is_active", "refresh_token", "refresh_token_expiry_time", "created_at",
	}
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.Account{
		Username: "alice",
		Email:    "alice@example.com",
		Role:     models.RoleReader,
		IsActive: true,
	}

	t.Run("generates id and hashes password", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(
				sqlmock.AnyArg(), // user_id
				"alice",
				"alice@example.com",
				sqlmock.AnyArg(), // password_hash
				models.RoleReader,
				true,
				"",
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.CreateUser(ctx, user, "password123")
		require.NoError(t, err)

		assert.NotEmpty(t, user.UserID)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetUserByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(userColumns()).
			AddRow("u1", "alice", "alice@example.com", "hash", models.RoleMember,
				true, "", time.Time{}, time.Now())

		mock.ExpectQuery("SELECT \\* FROM users WHERE username").
			WithArgs("alice").
			WillReturnRows(rows)

		user, err := repo.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.UserID)
		assert.Equal(t, models.RoleMember, user.Role)
	})

	t.Run("missing user maps to not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM users WHERE username").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetUserByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestUserRepository_UpdateRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("updates the row", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET role").
			WithArgs(models.RoleMember, "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateRole(ctx, "u1", models.RoleMember))
	})

	t.Run("zero rows means not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET role").
			WithArgs(models.RoleMember, "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateRole(ctx, "ghost", models.RoleMember), apperr.ErrNotFound)
	})
}

func TestUserRepository_DeleteUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("zero rows means not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users").
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteUser(ctx, "ghost"), apperr.ErrNotFound)
	})
}
