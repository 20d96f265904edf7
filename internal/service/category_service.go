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

const defaultCategoryIcon = "📚"

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, caller auth.Caller, name, icon string, displayOrder int) (*models.Category, error)
	Rename(ctx context.Context, caller auth.Caller, categoryID, newName string) error
	Delete(ctx context.Context, caller auth.Caller, categoryID string) error
}

type categoryService struct {
	categories repository.CategoryRepository
	policy     *auth.Policy
}

func NewCategoryService(categories repository.CategoryRepository, policy *auth.Policy) CategoryService {
	return &categoryService{categories: categories, policy: policy}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.categories.GetByName(ctx, name)
}

func (s *categoryService) Create(ctx context.Context, caller auth.Caller, name, icon string, displayOrder int) (*models.Category, error) {
	if err := s.policy.Require(caller, auth.TierAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperr.ErrValidation)
	}
	if icon == "" {
		icon = defaultCategoryIcon
	}

	category := &models.Category{Name: name, Icon: icon, DisplayOrder: displayOrder}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Rename(ctx context.Context, caller auth.Caller, categoryID, newName string) error {
	if err := s.policy.Require(caller, auth.TierAdmin); err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: category name is required", apperr.ErrValidation)
	}
	return s.categories.Rename(ctx, categoryID, newName)
}

func (s *categoryService) Delete(ctx context.Context, caller auth.Caller, categoryID string) error {
	if err := s.policy.Require(caller, auth.TierAdmin); err != nil {
		return err
	}
	return s.categories.Delete(ctx, categoryID)
}
