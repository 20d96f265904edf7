package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/models"
)

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.CategoryID == "" {
		category.CategoryID = uuid.New().String()
	}

	query := `
		INSERT INTO categories (category_id, name, icon, display_order)
		VALUES (:category_id, :name, :icon, :display_order)
	`

	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	var category models.Category

	err := r.db.GetContext(ctx, &category, `SELECT * FROM categories WHERE category_id = ?`, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", apperr.ErrNotFound, categoryID)
		}
		return nil, fmt.Errorf("fetching category: %w", err)
	}

	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category

	err := r.db.GetContext(ctx, &category, `SELECT * FROM categories WHERE name = ?`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", apperr.ErrNotFound, name)
		}
		return nil, fmt.Errorf("fetching category by name: %w", err)
	}

	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}

	query := `SELECT * FROM categories ORDER BY display_order, name`

	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) Rename(ctx context.Context, categoryID, newName string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var oldName string
	err = tx.GetContext(ctx, &oldName, `SELECT name FROM categories WHERE category_id = ?`, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: category %s", apperr.ErrNotFound, categoryID)
		}
		return fmt.Errorf("fetching category: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE category_id = ?`, newName, categoryID); err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}

	// Library documents reference the category by name; carry them along.
	if _, err := tx.ExecContext(ctx,
		`UPDATE media_assets SET category = ? WHERE collection = 'library' AND category = ?`,
		newName, oldName); err != nil {
		return fmt.Errorf("recategorizing documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rename: %w", err)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, categoryID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.GetContext(ctx, &name, `SELECT name FROM categories WHERE category_id = ?`, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: category %s", apperr.ErrNotFound, categoryID)
		}
		return fmt.Errorf("fetching category: %w", err)
	}

	var refs int
	err = tx.GetContext(ctx, &refs,
		`SELECT COUNT(*) FROM media_assets WHERE collection = 'library' AND category = ?`, name)
	if err != nil {
		return fmt.Errorf("counting category references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: category %q still has %d documents", apperr.ErrValidation, name, refs)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, categoryID); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing category delete: %w", err)
	}
	return nil
}
