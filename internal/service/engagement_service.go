package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
)

type EngagementService interface {
	AddComment(ctx context.Context, caller auth.Caller, contentType, contentID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, caller auth.Caller, commentID string) error
	ListComments(ctx context.Context, contentType, contentID string) ([]models.Comment, error)
	// ToggleLike flips the caller's like and reports the new state plus
	// the resulting like count.
	ToggleLike(ctx context.Context, caller auth.Caller, contentType, contentID string) (bool, int, error)
}

type engagementService struct {
	engagements repository.EngagementRepository
	posts       repository.PostRepository
	assets      repository.AssetRepository
	policy      *auth.Policy
}

func NewEngagementService(
	engagements repository.EngagementRepository,
	posts repository.PostRepository,
	assets repository.AssetRepository,
	policy *auth.Policy,
) EngagementService {
	return &engagementService{engagements: engagements, posts: posts, assets: assets, policy: policy}
}

// verifyTarget confirms the engagement target exists. Comments and likes
// attach to blog posts and gallery photos symmetrically.
func (s *engagementService) verifyTarget(ctx context.Context, contentType, contentID string) error {
	switch contentType {
	case models.ContentPost:
		_, err := s.posts.GetByID(ctx, contentID)
		return err
	case models.ContentPhoto:
		_, err := s.assets.GetByID(ctx, contentID)
		return err
	default:
		return fmt.Errorf("%w: unknown content type %q", apperr.ErrValidation, contentType)
	}
}

func (s *engagementService) AddComment(ctx context.Context, caller auth.Caller, contentType, contentID, content string) (*models.Comment, error) {
	if err := s.policy.Require(caller, auth.TierMember); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: comment cannot be empty", apperr.ErrValidation)
	}
	if err := s.verifyTarget(ctx, contentType, contentID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:      caller.UserID,
		ContentType: contentType,
		ContentID:   contentID,
		Content:     content,
	}
	if err := s.engagements.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *engagementService) DeleteComment(ctx context.Context, caller auth.Caller, commentID string) error {
	comment, err := s.engagements.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.policy.RequireOwnerOrAdmin(caller, comment.UserID); err != nil {
		return err
	}
	return s.engagements.DeleteComment(ctx, commentID)
}

func (s *engagementService) ListComments(ctx context.Context, contentType, contentID string) ([]models.Comment, error) {
	return s.engagements.ListComments(ctx, contentType, contentID)
}

func (s *engagementService) ToggleLike(ctx context.Context, caller auth.Caller, contentType, contentID string) (bool, int, error) {
	if err := s.policy.Require(caller, auth.TierMember); err != nil {
		return false, 0, err
	}
	if err := s.verifyTarget(ctx, contentType, contentID); err != nil {
		return false, 0, err
	}

	liked, err := s.engagements.ToggleLike(ctx, caller.UserID, contentType, contentID)
	if err != nil {
		return false, 0, err
	}

	count, err := s.engagements.CountLikes(ctx, contentType, contentID)
	if err != nil {
		return false, 0, err
	}

	return liked, count, nil
}
