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

type engagementRepository struct {
	db *sqlx.DB
}

func NewEngagementRepository(db *sqlx.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO comments (comment_id, user_id, content_type, content_id, content, created_at)
		VALUES (:comment_id, :user_id, :content_type, :content_id, :content, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}

	return nil
}

func (r *engagementRepository) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment

	query := `SELECT * FROM comments WHERE comment_id = ?`

	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: comment %s", apperr.ErrNotFound, commentID)
		}
		return nil, fmt.Errorf("fetching comment: %w", err)
	}

	return &comment, nil
}

func (r *engagementRepository) ListComments(ctx context.Context, contentType, contentID string) ([]models.Comment, error) {
	comments := []models.Comment{}

	query := `SELECT * FROM comments WHERE content_type = ? AND content_id = ? ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &comments, query, contentType, contentID); err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	return comments, nil
}

func (r *engagementRepository) DeleteComment(ctx context.Context, commentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = ?`, commentID)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: comment %s", apperr.ErrNotFound, commentID)
	}

	return nil
}

// ToggleLike removes the like when one exists, creates it otherwise.
// Returns true when the item ends up liked.
func (r *engagementRepository) ToggleLike(ctx context.Context, userID, contentType, contentID string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var likeID string
	err = tx.GetContext(ctx, &likeID,
		`SELECT like_id FROM likes WHERE user_id = ? AND content_type = ? AND content_id = ?`,
		userID, contentType, contentID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		like := models.Like{
			LikeID:      uuid.New().String(),
			UserID:      userID,
			ContentType: contentType,
			ContentID:   contentID,
			CreatedAt:   time.Now().UTC(),
		}
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO likes (like_id, user_id, content_type, content_id, created_at)
			 VALUES (:like_id, :user_id, :content_type, :content_id, :created_at)`, like); err != nil {
			return false, fmt.Errorf("creating like: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("committing like: %w", err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("checking like: %w", err)

	default:
		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE like_id = ?`, likeID); err != nil {
			return false, fmt.Errorf("removing like: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("committing unlike: %w", err)
		}
		return false, nil
	}
}

// DeleteForContent drops all engagement rows for one content item in a
// single transaction, so a deleted photo or post leaves no dangling
// likes or comments behind.
func (r *engagementRepository) DeleteForContent(ctx context.Context, contentType, contentID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM likes WHERE content_type = ? AND content_id = ?`, contentType, contentID); err != nil {
		return fmt.Errorf("removing likes: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comments WHERE content_type = ? AND content_id = ?`, contentType, contentID); err != nil {
		return fmt.Errorf("removing comments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing engagement cleanup: %w", err)
	}

	return nil
}

func (r *engagementRepository) CountLikes(ctx context.Context, contentType, contentID string) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM likes WHERE content_type = ? AND content_id = ?`

	if err := r.db.GetContext(ctx, &count, query, contentType, contentID); err != nil {
		return 0, fmt.Errorf("counting likes: %w", err)
	}

	return count, nil
}
