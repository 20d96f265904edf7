package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/storage"
)

// MediaUpload is an optional attachment on a blog post. Blog media skips
// the image pipeline: attachments are stored as-is.
type MediaUpload struct {
	Filename string
	File     io.Reader
	Size     int64
}

type CreatePostRequest struct {
	Title   string
	Content string
	// Labels is the raw comma-separated form value.
	Labels string
	Media  *MediaUpload
}

type PostService interface {
	Create(ctx context.Context, caller auth.Caller, req CreatePostRequest) (*models.Post, error)
	Get(ctx context.Context, postID string) (*models.Post, error)
	List(ctx context.Context, label string) ([]models.Post, error)
	ListLabels(ctx context.Context) ([]models.Label, error)
	Update(ctx context.Context, caller auth.Caller, postID string, req CreatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, caller auth.Caller, postID string) error
}

type postService struct {
	postRepo repository.PostRepository
	store    storage.Storage
	namer    *storage.Namer
	policy   *auth.Policy
}

func NewPostService(postRepo repository.PostRepository, store storage.Storage, namer *storage.Namer, policy *auth.Policy) PostService {
	return &postService{postRepo: postRepo, store: store, namer: namer, policy: policy}
}

// mediaTypeForExt classifies a blog attachment by extension.
func mediaTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return "image"
	case ".mp4", ".webm", ".ogg":
		return "video"
	case ".mp3", ".wav":
		return "audio"
	}
	return ""
}

func parseLabels(raw string) []string {
	var labels []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			labels = append(labels, name)
		}
	}
	return labels
}

func (s *postService) saveMedia(ctx context.Context, upload *MediaUpload) (string, string, error) {
	rel, err := s.namer.Resolve(ctx, storage.BlogMedia, upload.Filename)
	if err != nil {
		return "", "", err
	}
	if err := s.store.Save(ctx, storage.BlogMedia.ObjectName(rel), upload.File, upload.Size); err != nil {
		return "", "", fmt.Errorf("saving post media: %w", err)
	}
	return rel, mediaTypeForExt(path.Ext(rel)), nil
}

func (s *postService) Create(ctx context.Context, caller auth.Caller, req CreatePostRequest) (*models.Post, error) {
	if err := s.policy.Require(caller, auth.TierMember); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", apperr.ErrValidation)
	}

	post := &models.Post{
		AuthorID: caller.UserID,
		Title:    req.Title,
		Content:  req.Content,
	}

	if req.Media != nil {
		rel, mediaType, err := s.saveMedia(ctx, req.Media)
		if err != nil {
			return nil, err
		}
		post.MediaFilename = rel
		post.MediaType = mediaType
	}

	if err := s.postRepo.Create(ctx, post, parseLabels(req.Labels)); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, postID string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

func (s *postService) List(ctx context.Context, label string) ([]models.Post, error) {
	return s.postRepo.List(ctx, label)
}

func (s *postService) ListLabels(ctx context.Context) ([]models.Label, error) {
	return s.postRepo.ListLabels(ctx)
}

func (s *postService) Update(ctx context.Context, caller auth.Caller, postID string, req CreatePostRequest) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOwnerOrAdmin(caller, post.AuthorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", apperr.ErrValidation)
	}

	post.Title = req.Title
	post.Content = req.Content

	if req.Media != nil {
		// A replacement attachment evicts the old file.
		if post.MediaFilename != "" {
			_ = s.store.Delete(ctx, storage.BlogMedia.ObjectName(post.MediaFilename))
		}
		rel, mediaType, err := s.saveMedia(ctx, req.Media)
		if err != nil {
			return nil, err
		}
		post.MediaFilename = rel
		post.MediaType = mediaType
	}

	if err := s.postRepo.Update(ctx, post, parseLabels(req.Labels)); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, caller auth.Caller, postID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.policy.RequireOwnerOrAdmin(caller, post.AuthorID); err != nil {
		return err
	}

	if post.MediaFilename != "" {
		_ = s.store.Delete(ctx, storage.BlogMedia.ObjectName(post.MediaFilename))
	}

	return s.postRepo.Delete(ctx, postID)
}
