package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"chef/internal/model"
	"chef/internal/repository"
	"chef/internal/schedule"
)

// MealInput carries the editable fields of a meal.
type MealInput struct {
	DishID string
	Date   time.Time
}

// WeekMeals is one labelled week of the schedule.
type WeekMeals struct {
	Label string       `json:"label"`
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
	Meals []model.Meal `json:"meals"`
}

// Schedule is the three-week view, weeks ordered last, this, next.
type Schedule struct {
	Weeks            []WeekMeals `json:"weeks"`
	CurrentWeekLabel string      `json:"current_week_label"`
}

// ScheduleOptions controls how "today" and week boundaries are computed.
type ScheduleOptions struct {
	Location *time.Location
	FirstDay time.Weekday
	Now      func() time.Time
}

// MealService defines the use cases for scheduling dishes as meals.
type MealService interface {
	// Schedule groups the owner's meals into last, this and next week.
	// An empty ownerID yields an empty schedule.
	Schedule(ctx context.Context, ownerID string) (*Schedule, error)

	// List returns all of the owner's meals ordered by date.
	List(ctx context.Context, ownerID string) ([]model.Meal, error)

	Get(ctx context.Context, ownerID, id string) (*model.Meal, error)
	Create(ctx context.Context, ownerID string, in MealInput) (*model.Meal, error)
	Update(ctx context.Context, ownerID, id string, in MealInput) (*model.Meal, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type mealService struct {
	meals  repository.MealRepository
	dishes repository.DishRepository
	opts   ScheduleOptions
}

// NewMealService constructs a MealService.
func NewMealService(meals repository.MealRepository, dishes repository.DishRepository, opts ScheduleOptions) MealService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &mealService{meals: meals, dishes: dishes, opts: opts}
}

func (s *mealService) Schedule(ctx context.Context, ownerID string) (*Schedule, error) {
	ctx, span := tracer.Start(ctx, "MealService.Schedule")
	defer span.End()

	out := &Schedule{Weeks: []WeekMeals{}, CurrentWeekLabel: schedule.ThisWeek}
	if ownerID == "" {
		return out, nil
	}

	today := s.opts.Now().In(s.opts.Location)
	for _, w := range schedule.Window(today, s.opts.FirstDay) {
		meals, err := s.meals.ListBetween(ctx, ownerID, w.Start, w.End)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("meals for %s: %w", w.Label, err)
		}
		out.Weeks = append(out.Weeks, WeekMeals{Label: w.Label, Start: w.Start, End: w.End, Meals: meals})
	}
	span.SetAttributes(attribute.String("chef.week_start", out.Weeks[1].Start.Format(model.DateLayout)))
	return out, nil
}

func (s *mealService) List(ctx context.Context, ownerID string) ([]model.Meal, error) {
	return s.meals.ListByOwner(ctx, ownerID)
}

func (s *mealService) Get(ctx context.Context, ownerID, id string) (*model.Meal, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	meal, err := s.meals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if meal.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return meal, nil
}

func (s *mealService) Create(ctx context.Context, ownerID string, in MealInput) (*model.Meal, error) {
	if err := s.validate(ctx, ownerID, in); err != nil {
		return nil, err
	}
	meal := &model.Meal{
		ID:        uuid.New().String(),
		DishID:    in.DishID,
		Date:      schedule.Date(in.Date),
		OwnerID:   ownerID,
		CreatedAt: s.opts.Now().UTC(),
	}
	stored, err := s.meals.Create(ctx, meal)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return stored, nil
}

func (s *mealService) Update(ctx context.Context, ownerID, id string, in MealInput) (*model.Meal, error) {
	meal, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, ownerID, in); err != nil {
		return nil, err
	}
	meal.DishID = in.DishID
	meal.Date = schedule.Date(in.Date)

	stored, err := s.meals.Update(ctx, meal)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update meal: %w", err)
	}
	return stored, nil
}

func (s *mealService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.meals.Delete(ctx, id)
}

// validate restricts the dish choice to the owner's own dishes.
func (s *mealService) validate(ctx context.Context, ownerID string, in MealInput) error {
	if in.Date.IsZero() {
		return ErrDateRequired
	}
	if _, err := uuid.Parse(in.DishID); err != nil {
		return ErrInvalidDish
	}
	dish, err := s.dishes.FindByID(ctx, in.DishID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidDish
		}
		return err
	}
	if dish.OwnerID != ownerID {
		return ErrInvalidDish
	}
	return nil
}
