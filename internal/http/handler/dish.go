package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"chef/internal/http/middleware"
	"chef/internal/model"
	"chef/internal/service"
)

const (
	msgNotYoursToUpdate = "That's not yours to update!"
	msgNotYoursToDelete = "That's not yours to delete!"
	msgNotYoursToView   = "That's not yours to view!"
)

type dishForm struct {
	Title                  string `json:"title" form:"title"`
	Text                   string `json:"text" form:"text"`
	ExcludeFromSuggestions bool   `json:"exclude_from_suggestions" form:"exclude_from_suggestions"`
}

func (f dishForm) input() service.DishInput {
	return service.DishInput{Title: f.Title, Text: f.Text, ExcludeFromSuggestions: f.ExcludeFromSuggestions}
}

type formField struct {
	Name      string `json:"name"`
	InputType string `json:"input_type"`
	Required  bool   `json:"required"`
	HelpText  string `json:"help_text,omitempty"`
}

var dishFields = []formField{
	{Name: "title", InputType: "text", Required: true},
	{Name: "text", InputType: "textarea"},
	{Name: "exclude_from_suggestions", InputType: "checkbox", HelpText: model.ExcludeFromSuggestionsHelp},
}

// pathID validates the :id path parameter.
func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	_, err := uuid.Parse(id)
	return id, err == nil
}

func duplicateMessage(title string) string {
	return fmt.Sprintf("%s was a duplicate, which is not allowed", title)
}

// ListDishes returns the caller's dishes, optionally filtered by q, with suggestions.
//
// @Summary List dishes
// @Tags    dishes
// @Produce json
// @Param   q query string false "case-insensitive filter on title or text"
// @Success 200 {object} map[string]any
// @Failure 401 {object} errorPayload
// @Router  /dishes [get]
func ListDishes(dishes service.DishService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.UserID(c)
		ctx := c.UserContext()

		list, err := dishes.List(ctx, owner, c.Query("q"))
		if err != nil {
			return writeServiceError(c, err, "")
		}
		suggestions, err := dishes.Suggest(ctx, owner)
		if err != nil {
			return writeServiceError(c, err, "")
		}
		return c.JSON(fiber.Map{
			"dishes":           list,
			"dish_suggestions": suggestions,
			"messages":         popFlashes(c, sessions),
		})
	}
}

// DishCreateForm returns the context of the new dish form, prefilling the title from term.
func DishCreateForm(sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := rememberMealCreateReferrer(c, sessions); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"title":    "Create a new dish",
			"initial":  fiber.Map{"title": c.Query("term")},
			"fields":   dishFields,
			"messages": popFlashes(c, sessions),
		})
	}
}

// CreateDish stores a dish for the caller and redirects to the dish list, or back to the
// meal form when that is where the user came from.
//
// @Summary Create a dish
// @Tags    dishes
// @Accept  json,x-www-form-urlencoded
// @Param   body body dishForm true "dish"
// @Success 303
// @Failure 400 {object} errorPayload
// @Router  /dishes/new [post]
func CreateDish(dishes service.DishService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := rememberMealCreateReferrer(c, sessions); err != nil {
			return err
		}

		var f dishForm
		if err := c.BodyParser(&f); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		_, err := dishes.Create(c.UserContext(), middleware.UserID(c), f.input())
		if errors.Is(err, service.ErrDuplicate) {
			if err := addFlash(c, sessions, FlashWarning, duplicateMessage(strings.TrimSpace(f.Title))); err != nil {
				return err
			}
			return c.Redirect(c.Path(), fiber.StatusSeeOther)
		}
		if err != nil {
			return writeServiceError(c, err, "")
		}

		dest, err := popSuccessURL(c, sessions)
		if err != nil {
			return err
		}
		if dest != "" {
			return c.Redirect(dest, fiber.StatusSeeOther)
		}
		return seeOther(c, RouteDishList)
	}
}

// DishUpdateForm returns the edit form context for a dish the caller owns.
func DishUpdateForm(dishes service.DishService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		dish, err := dishes.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return writeServiceError(c, err, msgNotYoursToUpdate)
		}
		return c.JSON(fiber.Map{
			"title":    "Edit dish",
			"object":   dish,
			"fields":   dishFields,
			"messages": popFlashes(c, sessions),
		})
	}
}

// UpdateDish saves changes to a dish the caller owns.
func UpdateDish(dishes service.DishService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var f dishForm
		if err := c.BodyParser(&f); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		_, err := dishes.Update(c.UserContext(), middleware.UserID(c), id, f.input())
		if errors.Is(err, service.ErrDuplicate) {
			if err := addFlash(c, sessions, FlashWarning, duplicateMessage(strings.TrimSpace(f.Title))); err != nil {
				return err
			}
			return c.Redirect(c.Path(), fiber.StatusSeeOther)
		}
		if err != nil {
			return writeServiceError(c, err, msgNotYoursToUpdate)
		}
		return seeOther(c, RouteDishList)
	}
}

// DishDeleteForm returns the dish to confirm its deletion.
func DishDeleteForm(dishes service.DishService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		dish, err := dishes.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return writeServiceError(c, err, msgNotYoursToDelete)
		}
		return c.JSON(fiber.Map{"object": dish})
	}
}

// DeleteDish removes a dish the caller owns together with its meals and photo.
//
// @Summary Delete a dish
// @Tags    dishes
// @Param   id path string true "dish id"
// @Success 303
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router  /dishes/{id}/delete [post]
func DeleteDish(dishes service.DishService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := dishes.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
			return writeServiceError(c, err, msgNotYoursToDelete)
		}
		return seeOther(c, RouteDishList)
	}
}

// UploadDishPhoto stores the multipart "photo" file for a dish.
func UploadDishPhoto(dishes service.DishService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("photo")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "photo is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		dish, err := dishes.UploadPhoto(c.UserContext(), middleware.UserID(c), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err, msgNotYoursToUpdate)
		}
		return c.JSON(dish)
	}
}

// DishPhoto redirects to a short-lived download URL for the dish photo.
func DishPhoto(dishes service.DishService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := dishes.PhotoURL(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return writeServiceError(c, err, msgNotYoursToView)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}
