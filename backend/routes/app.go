package routes

import (
	"log"
	"time"

	"aulavirtual/backend/config"
	"aulavirtual/backend/middleware"
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application with the full middleware chain and every route.
func NewApp(cfg *config.Config, svc *services.Services, logger *log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "aulavirtual",
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          utils.ErrorHandler(logger),
		DisableStartupMessage: cfg.Env == "test",
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Env == "dev"}))
	app.Use(middleware.RequestID())
	app.Use(middleware.LoggingMiddleware(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	if cfg.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerMinute,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health"
			},
		}))
	}

	SetupRoutes(app, svc, cfg)
	return app
}
