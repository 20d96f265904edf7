package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/media"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/storage"
)

type mockAssetRepo struct {
	mock.Mock
}

func (m *mockAssetRepo) Create(ctx context.Context, asset *models.MediaAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *mockAssetRepo) GetByID(ctx context.Context, assetID string) (*models.MediaAsset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaAsset), args.Error(1)
}

func (m *mockAssetRepo) List(ctx context.Context, collection string, f repository.AssetFilter, limit, offset int) ([]models.MediaAsset, error) {
	args := m.Called(ctx, collection, f, limit, offset)
	return args.Get(0).([]models.MediaAsset), args.Error(1)
}

func (m *mockAssetRepo) Count(ctx context.Context, collection string, f repository.AssetFilter) (int, error) {
	args := m.Called(ctx, collection, f)
	return args.Int(0), args.Error(1)
}

func (m *mockAssetRepo) DistinctYears(ctx context.Context, collection string) ([]int, error) {
	args := m.Called(ctx, collection)
	return args.Get(0).([]int), args.Error(1)
}

func (m *mockAssetRepo) Recent(ctx context.Context, collection string, limit int) ([]models.MediaAsset, error) {
	args := m.Called(ctx, collection, limit)
	return args.Get(0).([]models.MediaAsset), args.Error(1)
}

func (m *mockAssetRepo) Delete(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}

// stubProcessor lets a test choose whether processing succeeds without
// decoding real image bytes.
type stubProcessor struct {
	err    error
	called bool
}

func (s *stubProcessor) Process(_ context.Context, _ storage.Namespace, rel string) (*media.Result, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return &media.Result{Width: 100, Height: 100, ThumbnailPath: storage.ThumbnailPath(rel)}, nil
}

func newUploadFixture(t *testing.T, processor media.Processor) (UploadService, *mockAssetRepo, storage.Storage) {
	t.Helper()
	store, err := storage.NewFSStorage(t.TempDir())
	require.NoError(t, err)

	repo := new(mockAssetRepo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewUploadService(repo, store, storage.NewNamer(store), processor, auth.NewPolicy(), logger)
	return svc, repo, store
}

func TestUploadService_Upload(t *testing.T) {
	ctx := context.Background()
	member := auth.Caller{UserID: "u1", Username: "alice", Role: models.RoleMember}

	t.Run("rejects missing file before any write", func(t *testing.T) {
		svc, repo, _ := newUploadFixture(t, &stubProcessor{})

		_, err := svc.Upload(ctx, member, storage.Gallery, UploadRequest{})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("anonymous caller is sent to login", func(t *testing.T) {
		svc, _, _ := newUploadFixture(t, &stubProcessor{})

		_, err := svc.Upload(ctx, auth.Caller{}, storage.Gallery, UploadRequest{
			Filename: "a.jpg", File: strings.NewReader("x"), Size: 1,
		})
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("disallowed extension fails validation before the permission check", func(t *testing.T) {
		svc, repo, _ := newUploadFixture(t, &stubProcessor{})

		// Even anonymous callers get the validation answer, not a login
		// redirect.
		_, err := svc.Upload(ctx, auth.Caller{}, storage.Gallery, UploadRequest{
			Filename: "report.pdf", File: strings.NewReader("x"), Size: 1,
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.NotErrorIs(t, err, apperr.ErrUnauthenticated)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("reader is forbidden", func(t *testing.T) {
		svc, _, _ := newUploadFixture(t, &stubProcessor{})
		reader := auth.Caller{UserID: "u2", Role: models.RoleReader}

		_, err := svc.Upload(ctx, reader, storage.Gallery, UploadRequest{
			Filename: "a.jpg", File: strings.NewReader("x"), Size: 1,
		})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("successful upload records the asset", func(t *testing.T) {
		proc := &stubProcessor{}
		svc, repo, store := newUploadFixture(t, proc)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.MediaAsset")).Return(nil)

		asset, err := svc.Upload(ctx, member, storage.Gallery, UploadRequest{
			Filename: "my summer trip.jpg",
			File:     strings.NewReader("imagedata"),
			Size:     9,
		})
		require.NoError(t, err)

		assert.True(t, proc.called)
		assert.Equal(t, "gallery", asset.Collection)
		assert.Equal(t, "My Summer Trip", asset.Title)
		assert.Equal(t, "my summer trip.jpg", asset.OriginalFilename)
		assert.True(t, asset.IsPublic)
		assert.NotZero(t, asset.Year)
		assert.NotEmpty(t, asset.Month)

		exists, err := store.Exists(ctx, storage.Gallery.ObjectName(asset.StoredPath))
		require.NoError(t, err)
		assert.True(t, exists)

		repo.AssertExpectations(t)
	})

	t.Run("explicit title wins over the derived one", func(t *testing.T) {
		svc, repo, _ := newUploadFixture(t, &stubProcessor{})
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		asset, err := svc.Upload(ctx, member, storage.Gallery, UploadRequest{
			Filename: "dsc_0042.jpg",
			File:     strings.NewReader("x"),
			Size:     1,
			Title:    "  Golden Hour  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "Golden Hour", asset.Title)
	})

	t.Run("processing failure leaves no catalog record", func(t *testing.T) {
		svc, repo, store := newUploadFixture(t, &stubProcessor{err: apperr.ErrProcessing})

		_, err := svc.Upload(ctx, member, storage.Gallery, UploadRequest{
			Filename: "broken.jpg",
			File:     strings.NewReader("junk"),
			Size:     4,
		})
		assert.ErrorIs(t, err, apperr.ErrProcessing)
		repo.AssertNotCalled(t, "Create")

		// The raw file stays on disk as an orphan.
		rel := fmt.Sprintf("%d/broken.jpg", time.Now().UTC().Year())
		exists, statErr := store.Exists(ctx, storage.Gallery.ObjectName(rel))
		require.NoError(t, statErr)
		assert.True(t, exists)
	})

	t.Run("documents skip image processing", func(t *testing.T) {
		proc := &stubProcessor{err: apperr.ErrProcessing}
		svc, repo, store := newUploadFixture(t, proc)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		public := false
		asset, err := svc.Upload(ctx, member, storage.Library.Sub("Programming"), UploadRequest{
			Filename: "golang.pdf",
			File:     strings.NewReader("pdfdata"),
			Size:     7,
			Category: "Programming",
			Public:   &public,
		})
		require.NoError(t, err)

		assert.False(t, proc.called)
		assert.Equal(t, "Programming", asset.Category)
		assert.False(t, asset.IsPublic)

		// The recorded path includes the category folder and stays valid
		// through the base namespace.
		assert.Equal(t, "Programming/golang.pdf", asset.StoredPath)
		exists, err := store.Exists(ctx, storage.Library.ObjectName(asset.StoredPath))
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("absent visibility flag defaults to visible", func(t *testing.T) {
		svc, repo, _ := newUploadFixture(t, &stubProcessor{})
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		asset, err := svc.Upload(ctx, member, storage.Library.Sub("Programming"), UploadRequest{
			Filename: "sicp.pdf",
			File:     strings.NewReader("pdfdata"),
			Size:     7,
			Category: "Programming",
		})
		require.NoError(t, err)
		assert.True(t, asset.IsPublic)
	})
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"my_summer-trip.jpg", "My Summer Trip"},
		{"sunset.jpg", "Sunset"},
		{"already Nice.png", "Already Nice"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleFromFilename(tt.in))
	}
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "nov23", monthKey(time.Date(2023, time.November, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "jan24", monthKey(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
