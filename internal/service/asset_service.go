package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/storage"
)

// GalleryPage is one page of a paginated, filterable collection listing.
type GalleryPage struct {
	Items      []models.MediaAsset `json:"items"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"totalPages"`
	Years      []int               `json:"years,omitempty"`
}

type AssetService interface {
	List(ctx context.Context, ns storage.Namespace, filter repository.AssetFilter, page int) (*GalleryPage, error)
	Recent(ctx context.Context, ns storage.Namespace, limit int) ([]models.MediaAsset, error)
	Get(ctx context.Context, assetID string) (*models.MediaAsset, error)
	Delete(ctx context.Context, caller auth.Caller, assetID string) error
	// Download streams a library document after the visibility check.
	Download(ctx context.Context, caller auth.Caller, assetID string) (io.ReadCloser, *models.MediaAsset, error)
}

type assetService struct {
	assets      repository.AssetRepository
	engagements repository.EngagementRepository
	store       storage.Storage
	policy      *auth.Policy
	logger      *slog.Logger
}

func NewAssetService(assets repository.AssetRepository, engagements repository.EngagementRepository, store storage.Storage, policy *auth.Policy, logger *slog.Logger) AssetService {
	return &assetService{assets: assets, engagements: engagements, store: store, policy: policy, logger: logger}
}

// List pages through a collection. An out-of-range page comes back empty
// rather than failing; the distinct year set is only computed for
// year-partitioned namespaces.
func (s *assetService) List(ctx context.Context, ns storage.Namespace, filter repository.AssetFilter, page int) (*GalleryPage, error) {
	if page < 1 {
		page = 1
	}
	pageSize := ns.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	filter.OrderByYear = ns.YearPartitioned

	total, err := s.assets.Count(ctx, ns.Name, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.assets.List(ctx, ns.Name, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	result := &GalleryPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}

	if ns.YearPartitioned {
		years, err := s.assets.DistinctYears(ctx, ns.Name)
		if err != nil {
			return nil, err
		}
		result.Years = years
	}

	return result, nil
}

func (s *assetService) Recent(ctx context.Context, ns storage.Namespace, limit int) ([]models.MediaAsset, error) {
	return s.assets.Recent(ctx, ns.Name, limit)
}

func (s *assetService) Get(ctx context.Context, assetID string) (*models.MediaAsset, error) {
	return s.assets.GetByID(ctx, assetID)
}

// Delete removes the backing file, its thumbnail when one exists, the
// asset's likes and comments, then the catalog row. Assets carry no
// owner, so deletion is admin-only. The steps are not atomic; a failure
// in between leaves an orphaned row or file and is logged.
func (s *assetService) Delete(ctx context.Context, caller auth.Caller, assetID string) error {
	if err := s.policy.Require(caller, auth.TierAdmin); err != nil {
		return err
	}

	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return err
	}

	ns := s.namespaceFor(asset)

	if err := s.store.Delete(ctx, ns.ObjectName(asset.StoredPath)); err != nil {
		s.logger.Warn("could not delete asset file", "path", asset.StoredPath, "error", err)
	}
	if ns.ImageTyped {
		thumb := storage.ThumbnailPath(asset.StoredPath)
		if err := s.store.Delete(ctx, ns.ObjectName(thumb)); err != nil {
			s.logger.Warn("could not delete thumbnail", "path", thumb, "error", err)
		}
	}

	if err := s.engagements.DeleteForContent(ctx, models.ContentPhoto, assetID); err != nil {
		return err
	}

	return s.assets.Delete(ctx, assetID)
}

func (s *assetService) Download(ctx context.Context, caller auth.Caller, assetID string) (io.ReadCloser, *models.MediaAsset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.policy.AllowDownload(caller, asset.IsPublic); err != nil {
		return nil, nil, err
	}

	ns := s.namespaceFor(asset)
	rc, err := s.store.Open(ctx, ns.ObjectName(asset.StoredPath))
	if err != nil {
		return nil, nil, err
	}

	return rc, asset, nil
}

// namespaceFor resolves the collection namespace an asset's stored path
// is relative to. Stored paths already carry any per-category
// subdirectory, so the mutable category column plays no part here.
func (s *assetService) namespaceFor(asset *models.MediaAsset) storage.Namespace {
	ns, ok := storage.NamespaceFor(asset.Collection)
	if !ok {
		ns = storage.Namespace{Name: asset.Collection, Dir: asset.Collection}
	}
	return ns
}
