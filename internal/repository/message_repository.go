package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kovzhu/mysite/internal/models"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.MessageID == "" {
		message.MessageID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO messages (message_id, name, email, content, user_id, created_at)
		VALUES (:message_id, :name, :email, :content, :user_id, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("creating message: %w", err)
	}

	return nil
}

func (r *messageRepository) List(ctx context.Context) ([]models.Message, error) {
	messages := []models.Message{}

	query := `SELECT * FROM messages ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	return messages, nil
}
