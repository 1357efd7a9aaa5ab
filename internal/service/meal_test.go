package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chef/internal/model"
	repoMocks "chef/internal/repository/mocks"
	"chef/internal/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMealService_Schedule(t *testing.T) {
	// Saturday 17 October 2026
	now := time.Date(2026, 10, 17, 18, 30, 0, 0, time.UTC)

	t.Run("three weeks in order", func(t *testing.T) {
		mMeals := new(repoMocks.MockMealRepository)
		svc := NewMealService(mMeals, nil, ScheduleOptions{FirstDay: time.Monday, Now: fixedClock(now)})

		mMeals.On("ListBetween", mock.Anything, "owner-1", date(2026, 10, 5), date(2026, 10, 12)).
			Return([]model.Meal{{ID: "last"}}, nil).Once()
		mMeals.On("ListBetween", mock.Anything, "owner-1", date(2026, 10, 12), date(2026, 10, 19)).
			Return([]model.Meal{{ID: "this-1"}, {ID: "this-2"}}, nil).Once()
		mMeals.On("ListBetween", mock.Anything, "owner-1", date(2026, 10, 19), date(2026, 10, 26)).
			Return([]model.Meal{}, nil).Once()

		got, err := svc.Schedule(context.Background(), "owner-1")

		require.NoError(t, err)
		require.Len(t, got.Weeks, 3)
		assert.Equal(t, schedule.ThisWeek, got.CurrentWeekLabel)
		assert.Equal(t, schedule.LastWeek, got.Weeks[0].Label)
		assert.Equal(t, schedule.ThisWeek, got.Weeks[1].Label)
		assert.Equal(t, schedule.NextWeek, got.Weeks[2].Label)
		assert.Len(t, got.Weeks[1].Meals, 2)
		assert.Empty(t, got.Weeks[2].Meals)
		mMeals.AssertExpectations(t)
	})

	t.Run("timezone decides today", func(t *testing.T) {
		mMeals := new(repoMocks.MockMealRepository)
		loc := time.FixedZone("UTC+10", 10*3600)
		// Sunday 18th 22:00 UTC is Monday 19th in UTC+10, so "this week" starts on the 19th.
		svc := NewMealService(mMeals, nil, ScheduleOptions{
			Location: loc,
			FirstDay: time.Monday,
			Now:      fixedClock(time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)),
		})

		mMeals.On("ListBetween", mock.Anything, "owner-1", mock.Anything, mock.Anything).Return([]model.Meal{}, nil)

		got, err := svc.Schedule(context.Background(), "owner-1")

		require.NoError(t, err)
		assert.Equal(t, date(2026, 10, 19), got.Weeks[1].Start)
	})

	t.Run("anonymous visitor", func(t *testing.T) {
		mMeals := new(repoMocks.MockMealRepository)
		svc := NewMealService(mMeals, nil, ScheduleOptions{Now: fixedClock(now)})

		got, err := svc.Schedule(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, got.Weeks)
		assert.Equal(t, schedule.ThisWeek, got.CurrentWeekLabel)
		mMeals.AssertNotCalled(t, "ListBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		mMeals := new(repoMocks.MockMealRepository)
		svc := NewMealService(mMeals, nil, ScheduleOptions{Now: fixedClock(now)})

		mMeals.On("ListBetween", mock.Anything, "owner-1", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := svc.Schedule(context.Background(), "owner-1")
		assert.EqualError(t, err, "meals for Last week: db fail")
	})
}

const (
	dishOne     = "0b7a2f4e-6c1d-4e8a-9f53-2d4c8b1e7a01"
	dishTwo     = "0b7a2f4e-6c1d-4e8a-9f53-2d4c8b1e7a02"
	unknownDish = "0b7a2f4e-6c1d-4e8a-9f53-2d4c8b1e7a03"
)

func TestMealService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		in         MealInput
		setupMocks func(mMeals *repoMocks.MockMealRepository, mDishes *repoMocks.MockDishRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			in:   MealInput{DishID: dishOne, Date: time.Date(2026, 10, 20, 13, 0, 0, 0, time.UTC)},
			setupMocks: func(mMeals *repoMocks.MockMealRepository, mDishes *repoMocks.MockDishRepository) {
				mDishes.On("FindByID", ctx, dishOne).Return(&model.Dish{ID: dishOne, OwnerID: "owner-1"}, nil)
				mMeals.On("Create", ctx, mock.MatchedBy(func(m *model.Meal) bool {
					return m.OwnerID == "owner-1" && m.DishID == dishOne && m.Date.Equal(date(2026, 10, 20)) && m.CreatedAt.Equal(now)
				})).Return(&model.Meal{ID: "meal-1", DishTitle: "Soup"}, nil)
			},
		},
		{
			name:       "missing date",
			in:         MealInput{DishID: dishOne},
			setupMocks: func(mMeals *repoMocks.MockMealRepository, mDishes *repoMocks.MockDishRepository) {},
			wantErr:    ErrDateRequired,
		},
		{
			name:       "missing dish",
			in:         MealInput{Date: date(2026, 10, 20)},
			setupMocks: func(mMeals *repoMocks.MockMealRepository, mDishes *repoMocks.MockDishRepository) {},
			wantErr:    ErrInvalidDish,
		},
		{
			name: "unknown dish",
			in:   MealInput{DishID: unknownDish, Date: date(2026, 10, 20)},
			setupMocks: func(mMeals *repoMocks.MockMealRepository, mDishes *repoMocks.MockDishRepository) {
				mDishes.On("FindByID", ctx, unknownDish).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidDish,
		},
		{
			name:       "malformed dish id",
			in:         MealInput{DishID: "abc", Date: date(2026, 10, 20)},
			setupMocks: func(mMeals *repoMocks.MockMealRepository, mDishes *repoMocks.MockDishRepository) {},
			wantErr:    ErrInvalidDish,
		},
		{
			name: "another owner's dish",
			in:   MealInput{DishID: dishTwo, Date: date(2026, 10, 20)},
			setupMocks: func(mMeals *repoMocks.MockMealRepository, mDishes *repoMocks.MockDishRepository) {
				mDishes.On("FindByID", ctx, dishTwo).Return(&model.Dish{ID: dishTwo, OwnerID: "owner-2"}, nil)
			},
			wantErr: ErrInvalidDish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mMeals := new(repoMocks.MockMealRepository)
			mDishes := new(repoMocks.MockDishRepository)
			svc := NewMealService(mMeals, mDishes, ScheduleOptions{Now: fixedClock(now)})
			tt.setupMocks(mMeals, mDishes)

			meal, err := svc.Create(ctx, "owner-1", tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, meal)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "meal-1", meal.ID)
			}
			mMeals.AssertExpectations(t)
			mDishes.AssertExpectations(t)
		})
	}
}

func TestMealService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update by owner", func(t *testing.T) {
		mMeals := new(repoMocks.MockMealRepository)
		mDishes := new(repoMocks.MockDishRepository)
		svc := NewMealService(mMeals, mDishes, ScheduleOptions{})

		mMeals.On("FindByID", ctx, "meal-1").Return(&model.Meal{ID: "meal-1", OwnerID: "owner-1", DishID: dishOne}, nil)
		mDishes.On("FindByID", ctx, dishTwo).Return(&model.Dish{ID: dishTwo, OwnerID: "owner-1"}, nil)
		mMeals.On("Update", ctx, mock.MatchedBy(func(m *model.Meal) bool {
			return m.DishID == dishTwo && m.Date.Equal(date(2026, 10, 22))
		})).Return(&model.Meal{ID: "meal-1", DishID: dishTwo}, nil)

		got, err := svc.Update(ctx, "owner-1", "meal-1", MealInput{DishID: dishTwo, Date: date(2026, 10, 22)})

		require.NoError(t, err)
		assert.Equal(t, dishTwo, got.DishID)
		mMeals.AssertExpectations(t)
	})

	t.Run("update someone else's meal", func(t *testing.T) {
		mMeals := new(repoMocks.MockMealRepository)
		svc := NewMealService(mMeals, new(repoMocks.MockDishRepository), ScheduleOptions{})

		mMeals.On("FindByID", ctx, "meal-1").Return(&model.Meal{ID: "meal-1", OwnerID: "owner-2"}, nil)

		_, err := svc.Update(ctx, "owner-1", "meal-1", MealInput{DishID: dishTwo, Date: date(2026, 10, 22)})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("delete by owner", func(t *testing.T) {
		mMeals := new(repoMocks.MockMealRepository)
		svc := NewMealService(mMeals, nil, ScheduleOptions{})

		mMeals.On("FindByID", ctx, "meal-1").Return(&model.Meal{ID: "meal-1", OwnerID: "owner-1"}, nil)
		mMeals.On("Delete", ctx, "meal-1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "owner-1", "meal-1"))
		mMeals.AssertExpectations(t)
	})

	t.Run("delete missing", func(t *testing.T) {
		mMeals := new(repoMocks.MockMealRepository)
		svc := NewMealService(mMeals, nil, ScheduleOptions{})

		mMeals.On("FindByID", ctx, "gone").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, "owner-1", "gone"), ErrNotFound)
		mMeals.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestMealService_List(t *testing.T) {
	ctx := context.Background()
	mMeals := new(repoMocks.MockMealRepository)
	svc := NewMealService(mMeals, nil, ScheduleOptions{})

	mMeals.On("ListByOwner", ctx, "owner-1").Return([]model.Meal{{ID: "a"}, {ID: "b"}}, nil)

	got, err := svc.List(ctx, "owner-1")

	require.NoError(t, err)
	assert.Len(t, got, 2)
}
