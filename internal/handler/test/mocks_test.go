package test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/service"
	"github.com/kovzhu/mysite/internal/storage"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, caller auth.Caller, ns storage.Namespace, req service.UploadRequest) (*models.MediaAsset, error) {
	args := m.Called(ctx, caller, ns, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaAsset), args.Error(1)
}

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) List(ctx context.Context, ns storage.Namespace, filter repository.AssetFilter, page int) (*service.GalleryPage, error) {
	args := m.Called(ctx, ns, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GalleryPage), args.Error(1)
}

func (m *MockAssetService) Recent(ctx context.Context, ns storage.Namespace, limit int) ([]models.MediaAsset, error) {
	args := m.Called(ctx, ns, limit)
	return args.Get(0).([]models.MediaAsset), args.Error(1)
}

func (m *MockAssetService) Get(ctx context.Context, assetID string) (*models.MediaAsset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaAsset), args.Error(1)
}

func (m *MockAssetService) Delete(ctx context.Context, caller auth.Caller, assetID string) error {
	args := m.Called(ctx, caller, assetID)
	return args.Error(0)
}

func (m *MockAssetService) Download(ctx context.Context, caller auth.Caller, assetID string) (io.ReadCloser, *models.MediaAsset, error) {
	args := m.Called(ctx, caller, assetID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*models.MediaAsset), args.Error(2)
}

type MockEngagementService struct {
	mock.Mock
}

func (m *MockEngagementService) AddComment(ctx context.Context, caller auth.Caller, contentType, contentID, content string) (*models.Comment, error) {
	args := m.Called(ctx, caller, contentType, contentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockEngagementService) DeleteComment(ctx context.Context, caller auth.Caller, commentID string) error {
	args := m.Called(ctx, caller, commentID)
	return args.Error(0)
}

func (m *MockEngagementService) ListComments(ctx context.Context, contentType, contentID string) ([]models.Comment, error) {
	args := m.Called(ctx, contentType, contentID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockEngagementService) ToggleLike(ctx context.Context, caller auth.Caller, contentType, contentID string) (bool, int, error) {
	args := m.Called(ctx, caller, contentType, contentID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context, caller auth.Caller) ([]models.Account, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockUserService) UpdateRole(ctx context.Context, caller auth.Caller, userID, role string) error {
	args := m.Called(ctx, caller, userID, role)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, caller auth.Caller, userID string) error {
	args := m.Called(ctx, caller, userID)
	return args.Error(0)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, caller auth.Caller, name, icon string, displayOrder int) (*models.Category, error) {
	args := m.Called(ctx, caller, name, icon, displayOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Rename(ctx context.Context, caller auth.Caller, categoryID, newName string) error {
	args := m.Called(ctx, caller, categoryID, newName)
	return args.Error(0)
}

func (m *MockCategoryService) Delete(ctx context.Context, caller auth.Caller, categoryID string) error {
	args := m.Called(ctx, caller, categoryID)
	return args.Error(0)
}
