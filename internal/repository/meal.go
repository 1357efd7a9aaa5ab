package repository

import (
	"context"
	"time"

	"chef/internal/model"
)

// MealRepository defines data access for scheduled meals.
type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) (*model.Meal, error)
	Update(ctx context.Context, meal *model.Meal) (*model.Meal, error)

	// FindByID returns a meal by its ID or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Meal, error)

	// ListByOwner returns all of the owner's meals ordered by date.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Meal, error)

	// ListBetween returns the owner's meals with from <= date < to, ordered by date.
	ListBetween(ctx context.Context, ownerID string, from, to time.Time) ([]model.Meal, error)

	Delete(ctx context.Context, id string) error
}
