package handler

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/kovzhu/mysite/internal/config"
	"github.com/kovzhu/mysite/internal/database"
	"github.com/kovzhu/mysite/internal/service"
)

type Handlers struct {
	Service  *service.Service
	DB       *database.DB
	Cfg      *config.Config
	Logger   *slog.Logger
	Validate *validator.Validate
}

func NewHandlers(svc *service.Service, db *database.DB, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		Service:  svc,
		DB:       db,
		Cfg:      cfg,
		Logger:   logger,
		Validate: validator.New(),
	}
}
