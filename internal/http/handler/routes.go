package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"chef/internal/http/middleware"
	"chef/internal/service"
)

// Route names, usable with fiber's GetRoute and RedirectToRoute.
const (
	RouteMealSchedule = "meal.schedule"
	RouteMealList     = "meal.list"
	RouteMealCreate   = "meal.create"
	RouteMealUpdate   = "meal.update"
	RouteMealDelete   = "meal.delete"
	RouteDishList     = "dish.list"
	RouteDishCreate   = "dish.create"
	RouteDishUpdate   = "dish.update"
	RouteDishDelete   = "dish.delete"
	RouteDishPhoto    = "dish.photo"
	RouteDishPhotoUp  = "dish.photo.upload"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB       *sql.DB
	Dishes   service.DishService
	Meals    service.MealService
	Auth     service.AuthService
	Tokens   middleware.TokenParser
	Sessions *session.Store
	Cookie   CookieOptions
}

// CookieOptions controls the access token cookie set on login.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/register", Register(d.Auth))
	app.Post("/auth/login", Login(d.Auth, d.Cookie))
	app.Post("/auth/logout", Logout(d.Sessions))

	optional := middleware.OptionalAuth(d.Tokens)
	required := middleware.RequireAuth(d.Tokens)

	app.Get("/", optional, MealSchedule(d.Meals, d.Sessions)).Name(RouteMealSchedule)
	app.Get("/meals", required, ListMeals(d.Meals)).Name(RouteMealList)
	app.Get("/meals/new", required, MealCreateForm(d.Dishes, d.Sessions)).Name(RouteMealCreate)
	app.Post("/meals/new", required, CreateMeal(d.Meals, d.Sessions))
	app.Get("/meals/:id/edit", required, MealUpdateForm(d.Meals, d.Dishes, d.Sessions)).Name(RouteMealUpdate)
	app.Post("/meals/:id/edit", required, UpdateMeal(d.Meals, d.Sessions))
	app.Get("/meals/:id/delete", required, MealDeleteForm(d.Meals)).Name(RouteMealDelete)
	app.Post("/meals/:id/delete", required, DeleteMeal(d.Meals))

	app.Get("/dishes", required, ListDishes(d.Dishes, d.Sessions)).Name(RouteDishList)
	app.Get("/dishes/new", required, DishCreateForm(d.Sessions)).Name(RouteDishCreate)
	app.Post("/dishes/new", required, CreateDish(d.Dishes, d.Sessions))
	app.Get("/dishes/:id/edit", required, DishUpdateForm(d.Dishes, d.Sessions)).Name(RouteDishUpdate)
	app.Post("/dishes/:id/edit", required, UpdateDish(d.Dishes, d.Sessions))
	app.Get("/dishes/:id/delete", required, DishDeleteForm(d.Dishes)).Name(RouteDishDelete)
	app.Post("/dishes/:id/delete", required, DeleteDish(d.Dishes))
	app.Get("/dishes/:id/photo", required, DishPhoto(d.Dishes)).Name(RouteDishPhoto)
	app.Post("/dishes/:id/photo", required, UploadDishPhoto(d.Dishes)).Name(RouteDishPhotoUp)
}

// HealthCheck reports whether the database answers a ping.
//
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router  /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// seeOther redirects a successful form post to a named route.
func seeOther(c *fiber.Ctx, route string) error {
	return c.RedirectToRoute(route, fiber.Map{}, fiber.StatusSeeOther)
}
