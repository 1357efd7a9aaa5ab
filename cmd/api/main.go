package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chef/docs"
	"chef/internal/auth"
	"chef/internal/config"
	"chef/internal/database"
	"chef/internal/database/migration"
	handlers "chef/internal/http/handler"
	"chef/internal/http/middleware"
	"chef/internal/logging"
	chefotel "chef/internal/otel"
	"chef/internal/repository/postgres"
	"chef/internal/service"
	"chef/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Chef API
// @version 1.0
// @BasePath /
func main() {
	cfg := config.Load()
	loc := cfg.Planner.Location()
	log := logging.New(cfg.LogLevel, loc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := chefotel.Init(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	// Photos are optional; without MINIO_ENDPOINT the photo routes answer 503.
	var objStore storage.Storage
	if cfg.MinIO.Enabled() {
		objStore, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize object storage")
		}
	} else {
		log.WithField("component", "storage").Warn("MINIO_ENDPOINT not set, dish photos disabled")
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		log.WithError(err).Fatal("failed to initialize token signing")
	}

	dishRepo := postgres.NewDishPostgres(db)
	mealRepo := postgres.NewMealPostgres(db)
	userRepo := postgres.NewUserPostgres(db)

	dishSvc := service.NewDishService(dishRepo, objStore, service.DishOptions{
		SuggestionLimit: cfg.Planner.SuggestionLimit,
	})
	mealSvc := service.NewMealService(mealRepo, dishRepo, service.ScheduleOptions{
		Location: loc,
		FirstDay: cfg.Planner.FirstWeekday(),
	})
	authSvc := service.NewAuthService(userRepo, tokens)

	sessions := session.New(session.Config{
		Expiration:     time.Duration(cfg.Session.ExpirationMin) * time.Minute,
		KeyLookup:      "cookie:chef_session",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	app := fiber.New(fiber.Config{
		AppName:      "chef",
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    10 * 1024 * 1024,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:       db,
		Dishes:   dishSvc,
		Meals:    mealSvc,
		Auth:     authSvc,
		Tokens:   tokens,
		Sessions: sessions,
		Cookie: handlers.CookieOptions{
			Secure: cfg.Session.CookieSecure,
			TTL:    tokens.TTL(),
		},
	})

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(map[string]any{"addr": addr, "app_host": cfg.AppHost}).Info("server starting")
		if err := app.Listen(addr); err != nil {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Error("tracing shutdown")
	}
}
