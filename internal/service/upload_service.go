package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/media"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/storage"
)

type UploadRequest struct {
	Filename    string
	File        io.Reader
	Size        int64
	Title       string
	Description string
	Category    string
	// Public applies to library documents; nil means the default
	// (visible).
	Public *bool
}

// UploadService is the ingestion pipeline: validate, name, persist,
// process, record.
type UploadService interface {
	Upload(ctx context.Context, caller auth.Caller, ns storage.Namespace, req UploadRequest) (*models.MediaAsset, error)
}

type uploadService struct {
	assets    repository.AssetRepository
	store     storage.Storage
	namer     *storage.Namer
	processor media.Processor
	policy    *auth.Policy
	logger    *slog.Logger
	now       func() time.Time
}

func NewUploadService(
	assets repository.AssetRepository,
	store storage.Storage,
	namer *storage.Namer,
	processor media.Processor,
	policy *auth.Policy,
	logger *slog.Logger,
) UploadService {
	return &uploadService{
		assets:    assets,
		store:     store,
		namer:     namer,
		processor: processor,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload runs the pipeline. Each step is a hard precondition for the
// next: nothing is written before validation and the permission check
// pass, and no catalog record is created when image processing fails
// (the raw file may remain on disk; that gap is logged, not rolled
// back).
func (s *uploadService) Upload(ctx context.Context, caller auth.Caller, ns storage.Namespace, req UploadRequest) (*models.MediaAsset, error) {
	if req.File == nil || strings.TrimSpace(req.Filename) == "" {
		return nil, fmt.Errorf("%w: no file supplied", apperr.ErrValidation)
	}
	if _, err := storage.ValidateFilename(ns, req.Filename); err != nil {
		return nil, err
	}

	if err := s.policy.Require(caller, auth.TierMember); err != nil {
		return nil, err
	}

	rel, err := s.namer.Resolve(ctx, ns, req.Filename)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, ns.ObjectName(rel), req.File, req.Size); err != nil {
		return nil, fmt.Errorf("persisting upload: %w", err)
	}

	if ns.ImageTyped {
		if _, err := s.processor.Process(ctx, ns, rel); err != nil {
			s.logger.Error("image processing failed, upload aborted",
				"namespace", ns.Name,
				"path", rel,
				"error", err,
			)
			return nil, err
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = TitleFromFilename(path.Base(rel))
	}

	// Grouping keys come from the upload time, never from file content.
	now := s.now().UTC()

	isPublic := true
	if req.Public != nil {
		isPublic = *req.Public
	}

	// The recorded path is relative to the collection root, so a later
	// category rename cannot detach the row from its file.
	asset := &models.MediaAsset{
		Collection:       ns.Name,
		Title:            title,
		Description:      strings.TrimSpace(req.Description),
		StoredPath:       ns.StoredPath(rel),
		OriginalFilename: req.Filename,
		Category:         req.Category,
		Month:            monthKey(now),
		Year:             now.Year(),
		IsPublic:         isPublic,
		CreatedAt:        now,
	}

	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info("asset uploaded",
		"namespace", ns.Name,
		"path", rel,
		"user", caller.Username,
	)

	return asset, nil
}

// monthKey formats the grouping key the galleries use: "nov23", "jan24".
func monthKey(t time.Time) string {
	return strings.ToLower(t.Format("Jan")) + t.Format("06")
}

// TitleFromFilename turns "my_summer-trip.jpg" into "My Summer Trip".
func TitleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, path.Ext(filename))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
