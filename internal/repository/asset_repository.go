package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/models"
)

type assetRepository struct {
	db *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *models.MediaAsset) error {
	if asset.AssetID == "" {
		asset.AssetID = uuid.New().String()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO media_assets (asset_id, collection, title, description, stored_path, original_filename, category, month, year, is_public, created_at)
		VALUES (:asset_id, :collection, :title, :description, :stored_path, :original_filename, :category, :month, :year, :is_public, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, asset); err != nil {
		return fmt.Errorf("creating media asset: %w", err)
	}

	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, assetID string) (*models.MediaAsset, error) {
	var asset models.MediaAsset

	query := `SELECT * FROM media_assets WHERE asset_id = ?`

	err := r.db.GetContext(ctx, &asset, query, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: asset %s", apperr.ErrNotFound, assetID)
		}
		return nil, fmt.Errorf("fetching media asset: %w", err)
	}

	return &asset, nil
}

func filterClause(f AssetFilter) (string, []interface{}) {
	clause := ""
	var args []interface{}
	if f.Year != 0 {
		clause += " AND year = ?"
		args = append(args, f.Year)
	}
	if f.Category != "" {
		clause += " AND category = ?"
		args = append(args, f.Category)
	}
	return clause, args
}

func (r *assetRepository) List(ctx context.Context, collection string, f AssetFilter, limit, offset int) ([]models.MediaAsset, error) {
	clause, args := filterClause(f)

	order := "created_at DESC"
	if f.OrderByYear {
		// Within-year filenames sort consistent with upload order, so the
		// path is the secondary key.
		order = "year DESC, stored_path DESC"
	}

	query := fmt.Sprintf(
		`SELECT * FROM media_assets WHERE collection = ?%s ORDER BY %s LIMIT ? OFFSET ?`,
		clause, order,
	)
	args = append([]interface{}{collection}, args...)
	args = append(args, limit, offset)

	assets := []models.MediaAsset{}
	if err := r.db.SelectContext(ctx, &assets, query, args...); err != nil {
		return nil, fmt.Errorf("listing media assets: %w", err)
	}

	return assets, nil
}

func (r *assetRepository) Count(ctx context.Context, collection string, f AssetFilter) (int, error) {
	clause, args := filterClause(f)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM media_assets WHERE collection = ?%s`, clause)
	args = append([]interface{}{collection}, args...)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting media assets: %w", err)
	}

	return count, nil
}

func (r *assetRepository) DistinctYears(ctx context.Context, collection string) ([]int, error) {
	query := `SELECT DISTINCT year FROM media_assets WHERE collection = ? AND year != 0 ORDER BY year DESC`

	years := []int{}
	if err := r.db.SelectContext(ctx, &years, query, collection); err != nil {
		return nil, fmt.Errorf("listing asset years: %w", err)
	}

	return years, nil
}

func (r *assetRepository) Recent(ctx context.Context, collection string, limit int) ([]models.MediaAsset, error) {
	query := `SELECT * FROM media_assets WHERE collection = ? ORDER BY created_at DESC LIMIT ?`

	assets := []models.MediaAsset{}
	if err := r.db.SelectContext(ctx, &assets, query, collection, limit); err != nil {
		return nil, fmt.Errorf("listing recent assets: %w", err)
	}

	return assets, nil
}

func (r *assetRepository) Delete(ctx context.Context, assetID string) error {
	query := `DELETE FROM media_assets WHERE asset_id = ?`

	result, err := r.db.ExecContext(ctx, query, assetID)
	if err != nil {
		return fmt.Errorf("deleting media asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: asset %s", apperr.ErrNotFound, assetID)
	}

	return nil
}
