package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/models"
)

func assetColumns() []string {
	return []string{
		"asset_id", "collection", "title", "description", "stored_path",
		"original_filename", "category", "month", "year", "is_public", "created_at",
	}
}

func assetRow(rows *sqlmock.Rows, id, collection, path string, year int) *sqlmock.Rows {
	return rows.AddRow(id, collection, "Title", "", path, path, "", "jul24", year, true, time.Now())
}

func TestAssetRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssetRepository(db)

	mock.ExpectExec("INSERT INTO media_assets").
		WithArgs(
			sqlmock.AnyArg(), // asset_id
			"gallery",
			"Sunset",
			"",
			"2024/sunset.jpg",
			"sunset.jpg",
			"",
			"jul24",
			2024,
			true,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	asset := &models.MediaAsset{
		Collection:       "gallery",
		Title:            "Sunset",
		StoredPath:       "2024/sunset.jpg",
		OriginalFilename: "sunset.jpg",
		Month:            "jul24",
		Year:             2024,
		IsPublic:         true,
	}

	require.NoError(t, repo.Create(context.Background(), asset))
	assert.NotEmpty(t, asset.AssetID)
	assert.False(t, asset.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("year ordering uses the stored path as secondary key", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAssetRepository(db)

		rows := assetColumnsRows()
		assetRow(rows, "a2", "gallery", "2024/b.jpg", 2024)
		assetRow(rows, "a1", "gallery", "2023/a.jpg", 2023)

		mock.ExpectQuery("ORDER BY year DESC, stored_path DESC").
			WithArgs("gallery", 20, 0).
			WillReturnRows(rows)

		assets, err := repo.List(ctx, "gallery", AssetFilter{OrderByYear: true}, 20, 0)
		require.NoError(t, err)
		assert.Len(t, assets, 2)
		assert.Equal(t, "a2", assets[0].AssetID)
	})

	t.Run("year filter narrows the query", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAssetRepository(db)

		rows := assetColumnsRows()
		assetRow(rows, "a1", "gallery", "2023/a.jpg", 2023)

		mock.ExpectQuery("AND year =").
			WithArgs("gallery", 2023, 20, 0).
			WillReturnRows(rows)

		assets, err := repo.List(ctx, "gallery", AssetFilter{Year: 2023, OrderByYear: true}, 20, 0)
		require.NoError(t, err)
		assert.Len(t, assets, 1)
	})

	t.Run("category filter narrows the query", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAssetRepository(db)

		mock.ExpectQuery("AND category =").
			WithArgs("library", "fiction", 20, 0).
			WillReturnRows(assetColumnsRows())

		assets, err := repo.List(ctx, "library", AssetFilter{Category: "fiction"}, 20, 0)
		require.NoError(t, err)
		assert.Empty(t, assets)
	})
}

func assetColumnsRows() *sqlmock.Rows {
	return sqlmock.NewRows(assetColumns())
}

func TestAssetRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssetRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM media_assets").
		WithArgs("gallery", 2024).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))

	count, err := repo.Count(context.Background(), "gallery", AssetFilter{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 45, count)
}

func TestAssetRepository_DistinctYears(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssetRepository(db)

	mock.ExpectQuery("SELECT DISTINCT year FROM media_assets").
		WithArgs("gallery").
		WillReturnRows(sqlmock.NewRows([]string{"year"}).AddRow(2024).AddRow(2023).AddRow(2021))

	years, err := repo.DistinctYears(context.Background(), "gallery")
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023, 2021}, years)
}

func TestAssetRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssetRepository(db)
	ctx := context.Background()

	t.Run("removes the row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM media_assets").
			WithArgs("a1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "a1"))
	})

	t.Run("zero rows means not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM media_assets").
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "ghost"), apperr.ErrNotFound)
	})
}
