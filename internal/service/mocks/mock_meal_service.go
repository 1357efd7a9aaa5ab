package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chef/internal/model"
	"chef/internal/service"
)

type MockMealService struct {
	mock.Mock
}

var _ service.MealService = (*MockMealService)(nil)

func (m *MockMealService) Schedule(ctx context.Context, ownerID string) (*service.Schedule, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Schedule), args.Error(1)
}

func (m *MockMealService) List(ctx context.Context, ownerID string) ([]model.Meal, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meal), args.Error(1)
}

func (m *MockMealService) Get(ctx context.Context, ownerID, id string) (*model.Meal, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) Create(ctx context.Context, ownerID string, in service.MealInput) (*model.Meal, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) Update(ctx context.Context, ownerID, id string, in service.MealInput) (*model.Meal, error) {
	args := m.Called(ctx, ownerID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
