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

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, labels []string) error {
	post.PostID = uuid.New().String()
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO posts (post_id, author_id, title, content, media_filename, media_type, created_at, updated_at)
		VALUES (:post_id, :author_id, :title, :content, :media_filename, :media_type, :created_at, :updated_at)
	`
	if _, err := tx.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("creating post: %w", err)
	}

	attached, err := attachLabels(ctx, tx, post.PostID, labels)
	if err != nil {
		return err
	}
	post.Labels = attached

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing post: %w", err)
	}
	return nil
}

// attachLabels links the post to the named labels, creating any label
// that does not exist yet (case-sensitive exact match).
func attachLabels(ctx context.Context, tx *sqlx.Tx, postID string, labels []string) ([]models.Label, error) {
	attached := []models.Label{}
	for _, name := range labels {
		var label models.Label
		err := tx.GetContext(ctx, &label, `SELECT * FROM labels WHERE name = ?`, name)
		if errors.Is(err, sql.ErrNoRows) {
			label = models.Label{LabelID: uuid.New().String(), Name: name}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO labels (label_id, name) VALUES (?, ?)`,
				label.LabelID, label.Name); err != nil {
				return nil, fmt.Errorf("creating label %q: %w", name, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("fetching label %q: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_labels (post_id, label_id) VALUES (?, ?)`,
			postID, label.LabelID); err != nil {
			return nil, fmt.Errorf("linking label %q: %w", name, err)
		}
		attached = append(attached, label)
	}
	return attached, nil
}

func (r *postRepository) loadLabels(ctx context.Context, posts []models.Post) error {
	for i := range posts {
		labels := []models.Label{}
		query := `
			SELECT l.label_id, l.name FROM labels l
			JOIN post_labels pl ON pl.label_id = l.label_id
			WHERE pl.post_id = ?
			ORDER BY l.name
		`
		if err := r.db.SelectContext(ctx, &labels, query, posts[i].PostID); err != nil {
			return fmt.Errorf("loading labels: %w", err)
		}
		posts[i].Labels = labels
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post

	query := `SELECT * FROM posts WHERE post_id = ?`

	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: post %s", apperr.ErrNotFound, postID)
		}
		return nil, fmt.Errorf("fetching post: %w", err)
	}

	posts := []models.Post{post}
	if err := r.loadLabels(ctx, posts); err != nil {
		return nil, err
	}

	return &posts[0], nil
}

func (r *postRepository) List(ctx context.Context, label string) ([]models.Post, error) {
	posts := []models.Post{}

	if label != "" {
		query := `
			SELECT p.* FROM posts p
			JOIN post_labels pl ON pl.post_id = p.post_id
			JOIN labels l ON l.label_id = pl.label_id
			WHERE l.name = ?
			ORDER BY p.created_at DESC
		`
		if err := r.db.SelectContext(ctx, &posts, query, label); err != nil {
			return nil, fmt.Errorf("listing posts by label: %w", err)
		}
	} else {
		query := `SELECT * FROM posts ORDER BY created_at DESC`
		if err := r.db.SelectContext(ctx, &posts, query); err != nil {
			return nil, fmt.Errorf("listing posts: %w", err)
		}
	}

	if err := r.loadLabels(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Recent(ctx context.Context, limit int) ([]models.Post, error) {
	posts := []models.Post{}

	query := `SELECT * FROM posts ORDER BY created_at DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &posts, query, limit); err != nil {
		return nil, fmt.Errorf("listing recent posts: %w", err)
	}

	if err := r.loadLabels(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, labels []string) error {
	post.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE posts
		SET title = :title, content = :content, media_filename = :media_filename, media_type = :media_type, updated_at = :updated_at
		WHERE post_id = :post_id
	`
	result, err := tx.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: post %s", apperr.ErrNotFound, post.PostID)
	}

	// Labels are replaced wholesale; unreferenced labels are kept.
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_labels WHERE post_id = ?`, post.PostID); err != nil {
		return fmt.Errorf("clearing post labels: %w", err)
	}
	attached, err := attachLabels(ctx, tx, post.PostID, labels)
	if err != nil {
		return err
	}
	post.Labels = attached

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing post update: %w", err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, postID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE post_id = ?`, postID)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: post %s", apperr.ErrNotFound, postID)
	}

	return nil
}

func (r *postRepository) ListLabels(ctx context.Context) ([]models.Label, error) {
	labels := []models.Label{}

	query := `SELECT * FROM labels ORDER BY name`
	if err := r.db.SelectContext(ctx, &labels, query); err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}

	return labels, nil
}
