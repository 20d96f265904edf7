package service

import (
	"context"
	"fmt"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
)

type UserService interface {
	ListUsers(ctx context.Context, caller auth.Caller) ([]models.Account, error)
	UpdateRole(ctx context.Context, caller auth.Caller, userID, role string) error
	DeleteUser(ctx context.Context, caller auth.Caller, userID string) error
}

type userService struct {
	userRepo repository.UserRepository
	policy   *auth.Policy
}

func NewUserService(userRepo repository.UserRepository, policy *auth.Policy) UserService {
	return &userService{userRepo: userRepo, policy: policy}
}

func (s *userService) ListUsers(ctx context.Context, caller auth.Caller) ([]models.Account, error) {
	if err := s.policy.Require(caller, auth.TierAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.ListUsers(ctx)
}

func (s *userService) UpdateRole(ctx context.Context, caller auth.Caller, userID, role string) error {
	if err := s.policy.Require(caller, auth.TierAdmin); err != nil {
		return err
	}
	if !auth.ValidRole(role) {
		return fmt.Errorf("%w: invalid role %q", apperr.ErrValidation, role)
	}
	return s.userRepo.UpdateRole(ctx, userID, role)
}

func (s *userService) DeleteUser(ctx context.Context, caller auth.Caller, userID string) error {
	if err := s.policy.AllowAccountDelete(caller, userID); err != nil {
		return err
	}
	return s.userRepo.DeleteUser(ctx, userID)
}
