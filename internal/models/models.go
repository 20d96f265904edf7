package models

import (
	"time"
)

// Roles, ascending by capability. Admin covers everything member can do,
// member covers everything reader can do.
const (
	RoleReader = "reader"
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Account struct {
	UserID                 string    `json:"userId" db:"user_id"`
	Username               string    `json:"username" db:"username"`
	Email                  string    `json:"email" db:"email"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	Role                   string    `json:"role" db:"role"`
	IsActive               bool      `json:"isActive" db:"is_active"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}

// MediaAsset is one uploaded binary in any collection: gallery photos,
// library documents, the collection galleries. StoredPath is relative to
// the collection's storage directory and is never reused once written.
type MediaAsset struct {
	AssetID          string    `json:"assetId" db:"asset_id"`
	Collection       string    `json:"collection" db:"collection"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	StoredPath       string    `json:"storedPath" db:"stored_path"`
	OriginalFilename string    `json:"originalFilename" db:"original_filename"`
	Category         string    `json:"category,omitempty" db:"category"`
	Month            string    `json:"month,omitempty" db:"month"`
	Year             int       `json:"year,omitempty" db:"year"`
	IsPublic         bool      `json:"isPublic" db:"is_public"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

type Post struct {
	PostID        string    `json:"postId" db:"post_id"`
	AuthorID      string    `json:"authorId" db:"author_id"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	MediaFilename string    `json:"mediaFilename,omitempty" db:"media_filename"`
	MediaType     string    `json:"mediaType,omitempty" db:"media_type"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
	Labels        []Label   `json:"labels" db:"-"`
}

type Label struct {
	LabelID string `json:"labelId" db:"label_id"`
	Name    string `json:"name" db:"name"`
}

// Engagement targets.
const (
	ContentPost  = "post"
	ContentPhoto = "photo"
)

type Comment struct {
	CommentID   string    `json:"commentId" db:"comment_id"`
	UserID      string    `json:"userId" db:"user_id"`
	ContentType string    `json:"contentType" db:"content_type"`
	ContentID   string    `json:"contentId" db:"content_id"`
	Content     string    `json:"content" db:"content"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Like struct {
	LikeID      string    `json:"likeId" db:"like_id"`
	UserID      string    `json:"userId" db:"user_id"`
	ContentType string    `json:"contentType" db:"content_type"`
	ContentID   string    `json:"contentId" db:"content_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Category struct {
	CategoryID   string `json:"categoryId" db:"category_id"`
	Name         string `json:"name" db:"name"`
	Icon         string `json:"icon" db:"icon"`
	DisplayOrder int    `json:"displayOrder" db:"display_order"`
}

type Message struct {
	MessageID string    `json:"messageId" db:"message_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Content   string    `json:"content" db:"content"`
	UserID    *string   `json:"userId,omitempty" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Project struct {
	ProjectID     string `json:"projectId" db:"project_id"`
	Title         string `json:"title" db:"title"`
	Description   string `json:"description" db:"description"`
	URL           string `json:"url,omitempty" db:"url"`
	Year          int    `json:"year,omitempty" db:"year"`
	ImageFilename string `json:"imageFilename,omitempty" db:"image_filename"`
}
