package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"chef/internal/http/middleware"
	"chef/internal/model"
	"chef/internal/service"
)

const mealDuplicateMessage = "That was a duplicate, which is not allowed"

type mealForm struct {
	DishID string `json:"dish_id" form:"dish_id"`
	Date   string `json:"date" form:"date"`
}

// input parses the form. An empty date is left zero so the service reports it as missing.
func (f mealForm) input() (service.MealInput, error) {
	in := service.MealInput{DishID: f.DishID}
	if f.Date == "" {
		return in, nil
	}
	d, err := time.Parse(model.DateLayout, f.Date)
	if err != nil {
		return in, err
	}
	in.Date = d
	return in, nil
}

type dishChoice struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

var mealFields = []formField{
	{Name: "dish_id", InputType: "select", Required: true},
	{Name: "date", InputType: "date", Required: true},
}

// dishChoices lists the caller's dishes, by title, for the meal form select.
func dishChoices(ctx context.Context, dishes service.DishService, owner string) ([]dishChoice, error) {
	list, err := dishes.List(ctx, owner, "")
	if err != nil {
		return nil, err
	}
	out := make([]dishChoice, 0, len(list))
	for _, d := range list {
		out = append(out, dishChoice{ID: d.ID, Title: d.Title})
	}
	return out, nil
}

// MealSchedule returns last week, this week and next week of the caller's meals.
// Anonymous visitors get an empty schedule.
//
// @Summary Three-week meal schedule
// @Tags    meals
// @Produce json
// @Success 200 {object} map[string]any
// @Router  / [get]
func MealSchedule(meals service.MealService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sched, err := meals.Schedule(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err, "")
		}
		return c.JSON(fiber.Map{
			"meals":              sched.Weeks,
			"current_week_label": sched.CurrentWeekLabel,
			"messages":           popFlashes(c, sessions),
		})
	}
}

// ListMeals returns all of the caller's meals ordered by date.
func ListMeals(meals service.MealService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := meals.List(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err, "")
		}
		return c.JSON(fiber.Map{"meals": list})
	}
}

// MealCreateForm returns the new meal form, prefilled from the dish_id and date query parameters.
func MealCreateForm(dishes service.DishService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		choices, err := dishChoices(c.UserContext(), dishes, middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err, "")
		}
		return c.JSON(fiber.Map{
			"title":        "Schedule a new meal",
			"initial":      fiber.Map{"dish": c.Query("dish_id"), "date": c.Query("date")},
			"fields":       mealFields,
			"dish_choices": choices,
			"messages":     popFlashes(c, sessions),
		})
	}
}

// CreateMeal schedules one of the caller's dishes on a date.
//
// @Summary Schedule a meal
// @Tags    meals
// @Accept  json,x-www-form-urlencoded
// @Param   body body mealForm true "meal"
// @Success 303
// @Failure 400 {object} errorPayload
// @Router  /meals/new [post]
func CreateMeal(meals service.MealService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f mealForm
		if err := c.BodyParser(&f); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		in, err := f.input()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
		}

		_, err = meals.Create(c.UserContext(), middleware.UserID(c), in)
		if errors.Is(err, service.ErrDuplicate) {
			if err := addFlash(c, sessions, FlashWarning, mealDuplicateMessage); err != nil {
				return err
			}
			return c.Redirect(c.Path(), fiber.StatusSeeOther)
		}
		if err != nil {
			return writeServiceError(c, err, "")
		}
		return seeOther(c, RouteMealSchedule)
	}
}

// MealUpdateForm returns the edit form context for a meal the caller owns.
func MealUpdateForm(meals service.MealService, dishes service.DishService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		owner := middleware.UserID(c)
		meal, err := meals.Get(c.UserContext(), owner, id)
		if err != nil {
			return writeServiceError(c, err, msgNotYoursToUpdate)
		}
		choices, err := dishChoices(c.UserContext(), dishes, owner)
		if err != nil {
			return writeServiceError(c, err, "")
		}
		return c.JSON(fiber.Map{
			"title":        "Edit meal",
			"object":       meal,
			"fields":       mealFields,
			"dish_choices": choices,
			"messages":     popFlashes(c, sessions),
		})
	}
}

// UpdateMeal saves changes to a meal the caller owns.
func UpdateMeal(meals service.MealService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var f mealForm
		if err := c.BodyParser(&f); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		in, err := f.input()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
		}

		_, err = meals.Update(c.UserContext(), middleware.UserID(c), id, in)
		if errors.Is(err, service.ErrDuplicate) {
			if err := addFlash(c, sessions, FlashWarning, mealDuplicateMessage); err != nil {
				return err
			}
			return c.Redirect(c.Path(), fiber.StatusSeeOther)
		}
		if err != nil {
			return writeServiceError(c, err, msgNotYoursToUpdate)
		}
		return seeOther(c, RouteMealSchedule)
	}
}

// MealDeleteForm returns the meal to confirm its deletion.
func MealDeleteForm(meals service.MealService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		meal, err := meals.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return writeServiceError(c, err, msgNotYoursToDelete)
		}
		return c.JSON(fiber.Map{"object": meal})
	}
}

// DeleteMeal removes a meal the caller owns.
func DeleteMeal(meals service.MealService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := meals.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
			return writeServiceError(c, err, msgNotYoursToDelete)
		}
		return seeOther(c, RouteMealSchedule)
	}
}
