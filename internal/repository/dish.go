package repository

import (
	"context"

	"chef/internal/model"
)

// DishRepository defines data access for dishes. Every read is scoped by owner
// except FindByID, which the service uses for ownership checks.
type DishRepository interface {
	// Create inserts a dish. Returns ErrDuplicate when the owner already has a dish with that title.
	Create(ctx context.Context, dish *model.Dish) (*model.Dish, error)

	// Update overwrites title, text and the suggestion flag. Returns ErrDuplicate on a title clash.
	Update(ctx context.Context, dish *model.Dish) (*model.Dish, error)

	// FindByID returns a dish by its ID or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Dish, error)

	// ListByOwner returns the owner's dishes ordered by lower(title).
	// A non-empty search matches title or text case-insensitively.
	ListByOwner(ctx context.Context, ownerID, search string) ([]model.Dish, error)

	// LeastRecentlyScheduled returns up to limit suggestible dishes, never-scheduled first,
	// then by the date of their latest meal.
	LeastRecentlyScheduled(ctx context.Context, ownerID string, limit int) ([]model.DishSuggestion, error)

	// SetPhoto records the object key of the dish photo. An empty key clears it.
	SetPhoto(ctx context.Context, id, key string) error

	// Delete removes a dish and, through the foreign key, its meals.
	Delete(ctx context.Context, id string) error
}
