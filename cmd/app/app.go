package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/config"
	"github.com/kovzhu/mysite/internal/database"
	"github.com/kovzhu/mysite/internal/media"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/service"
	"github.com/kovzhu/mysite/internal/storage"
)

// Application bundles everything main needs to serve requests and shut
// down cleanly.
type Application struct {
	DB      *database.DB
	Service *service.Service
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	repo := repository.NewRepository(db.DB)
	namer := storage.NewNamer(store)
	processor := media.NewImageProcessor(store, logger)
	policy := auth.NewPolicy()

	svc := service.NewService(repo, cfg, store, namer, processor, policy, logger)

	return &Application{DB: db, Service: svc}, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case "minio":
		return storage.NewMinIOStorage(ctx, cfg.MinIO)
	case "", "fs":
		return storage.NewFSStorage(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *Application) Close() error {
	return a.DB.CloseDB()
}
