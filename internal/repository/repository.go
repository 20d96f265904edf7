package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kovzhu/mysite/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.Account, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.Account, error)
	GetUserByUsername(ctx context.Context, username string) (*models.Account, error)
	ListUsers(ctx context.Context) ([]models.Account, error)
	UpdateRole(ctx context.Context, userID, role string) error
	DeleteUser(ctx context.Context, userID string) error
	VerifyPassword(ctx context.Context, username, password string) (*models.Account, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.Account, error)
}

// AssetFilter narrows a gallery query. Zero values mean "no filter".
type AssetFilter struct {
	Year     int
	Category string
	// OrderByYear switches the sort key from creation recency to
	// (year desc, stored_path desc) for year-partitioned collections.
	OrderByYear bool
}

type AssetRepository interface {
	Create(ctx context.Context, asset *models.MediaAsset) error
	GetByID(ctx context.Context, assetID string) (*models.MediaAsset, error)
	List(ctx context.Context, collection string, f AssetFilter, limit, offset int) ([]models.MediaAsset, error)
	Count(ctx context.Context, collection string, f AssetFilter) (int, error)
	DistinctYears(ctx context.Context, collection string) ([]int, error)
	Recent(ctx context.Context, collection string, limit int) ([]models.MediaAsset, error)
	Delete(ctx context.Context, assetID string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, labels []string) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	List(ctx context.Context, label string) ([]models.Post, error)
	Recent(ctx context.Context, limit int) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post, labels []string) error
	Delete(ctx context.Context, postID string) error
	ListLabels(ctx context.Context) ([]models.Label, error)
}

type EngagementRepository interface {
	AddComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	ListComments(ctx context.Context, contentType, contentID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	// ToggleLike flips the caller's like on a content item and reports the
	// resulting state. At most one like row exists per (user, item) pair.
	ToggleLike(ctx context.Context, userID, contentType, contentID string) (bool, error)
	CountLikes(ctx context.Context, contentType, contentID string) (int, error)
	// DeleteForContent removes every like and comment attached to a
	// content item, called when the item itself is deleted.
	DeleteForContent(ctx context.Context, contentType, contentID string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, categoryID string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	// Rename updates the category and recategorizes every library document
	// referencing the old name, in one transaction.
	Rename(ctx context.Context, categoryID, newName string) error
	// Delete refuses while any library document still references the
	// category.
	Delete(ctx context.Context, categoryID string) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	List(ctx context.Context) ([]models.Message, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	List(ctx context.Context) ([]models.Project, error)
}

type Repository struct {
	User       UserRepository
	Asset      AssetRepository
	Post       PostRepository
	Engagement EngagementRepository
	Category   CategoryRepository
	Message    MessageRepository
	Project    ProjectRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:       NewUserRepository(db),
		Asset:      NewAssetRepository(db),
		Post:       NewPostRepository(db),
		Engagement: NewEngagementRepository(db),
		Category:   NewCategoryRepository(db),
		Message:    NewMessageRepository(db),
		Project:    NewProjectRepository(db),
	}
}
