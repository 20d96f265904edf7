package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
)

// SiteService covers the site-wide odds and ends: the contact box and
// the project showcase.
type SiteService interface {
	SubmitMessage(ctx context.Context, caller auth.Caller, name, email, content string) (*models.Message, error)
	ListMessages(ctx context.Context, caller auth.Caller) ([]models.Message, error)
	AddProject(ctx context.Context, caller auth.Caller, project *models.Project) error
	ListProjects(ctx context.Context) ([]models.Project, error)
}

type siteService struct {
	messages repository.MessageRepository
	projects repository.ProjectRepository
	policy   *auth.Policy
}

func NewSiteService(messages repository.MessageRepository, projects repository.ProjectRepository, policy *auth.Policy) SiteService {
	return &siteService{messages: messages, projects: projects, policy: policy}
}

// SubmitMessage accepts contact messages from anyone; a signed-in
// sender is linked to the message.
func (s *siteService) SubmitMessage(ctx context.Context, caller auth.Caller, name, email, content string) (*models.Message, error) {
	name = strings.TrimSpace(name)
	content = strings.TrimSpace(content)
	if name == "" || content == "" {
		return nil, fmt.Errorf("%w: name and message content are required", apperr.ErrValidation)
	}

	message := &models.Message{
		MessageID: uuid.NewString(),
		Name:      name,
		Email:     strings.TrimSpace(email),
		Content:   content,
	}
	if !caller.Anonymous() {
		message.UserID = &caller.UserID
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	return message, nil
}

func (s *siteService) ListMessages(ctx context.Context, caller auth.Caller) ([]models.Message, error) {
	if err := s.policy.Require(caller, auth.TierAdmin); err != nil {
		return nil, err
	}
	return s.messages.List(ctx)
}

func (s *siteService) AddProject(ctx context.Context, caller auth.Caller, project *models.Project) error {
	if err := s.policy.Require(caller, auth.TierAdmin); err != nil {
		return err
	}
	if strings.TrimSpace(project.Title) == "" {
		return fmt.Errorf("%w: project title is required", apperr.ErrValidation)
	}
	if project.ProjectID == "" {
		project.ProjectID = uuid.NewString()
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return fmt.Errorf("failed to store project: %w", err)
	}
	return nil
}

func (s *siteService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projects.List(ctx)
}
