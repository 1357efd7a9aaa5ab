package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"chef/internal/model"
	"chef/internal/service"
)

type MockDishService struct {
	mock.Mock
}

var _ service.DishService = (*MockDishService)(nil)

func (m *MockDishService) List(ctx context.Context, ownerID, query string) ([]model.Dish, error) {
	args := m.Called(ctx, ownerID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Dish), args.Error(1)
}

func (m *MockDishService) Suggest(ctx context.Context, ownerID string) ([]model.DishSuggestion, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DishSuggestion), args.Error(1)
}

func (m *MockDishService) Get(ctx context.Context, ownerID, id string) (*model.Dish, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dish), args.Error(1)
}

func (m *MockDishService) Create(ctx context.Context, ownerID string, in service.DishInput) (*model.Dish, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dish), args.Error(1)
}

func (m *MockDishService) Update(ctx context.Context, ownerID, id string, in service.DishInput) (*model.Dish, error) {
	args := m.Called(ctx, ownerID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dish), args.Error(1)
}

func (m *MockDishService) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockDishService) UploadPhoto(ctx context.Context, ownerID, id string, r io.Reader, filename, contentType string, size int64) (*model.Dish, error) {
	args := m.Called(ctx, ownerID, id, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dish), args.Error(1)
}

func (m *MockDishService) PhotoURL(ctx context.Context, ownerID, id string) (string, error) {
	args := m.Called(ctx, ownerID, id)
	return args.String(0), args.Error(1)
}
