package service

import (
	"log/slog"

	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/config"
	"github.com/kovzhu/mysite/internal/media"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/storage"
)

type Service struct {
	Auth       AuthService
	User       UserService
	Upload     UploadService
	Asset      AssetService
	Post       PostService
	Engagement EngagementService
	Category   CategoryService
	Site       SiteService
}

func NewService(
	repo *repository.Repository,
	cfg *config.Config,
	store storage.Storage,
	namer *storage.Namer,
	processor media.Processor,
	policy *auth.Policy,
	logger *slog.Logger,
) *Service {
	upload := NewUploadService(repo.Asset, store, namer, processor, policy, logger)

	return &Service{
		Auth:       NewAuthService(repo.User, cfg),
		User:       NewUserService(repo.User, policy),
		Upload:     upload,
		Asset:      NewAssetService(repo.Asset, repo.Engagement, store, policy, logger),
		Post:       NewPostService(repo.Post, store, namer, policy),
		Engagement: NewEngagementService(repo.Engagement, repo.Post, repo.Asset, policy),
		Category:   NewCategoryService(repo.Category, policy),
		Site:       NewSiteService(repo.Message, repo.Project, policy),
	}
}
