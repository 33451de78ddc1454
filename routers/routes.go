// Package routers assembles the fiber application.
package routers

import (
	adminController "techgo/controllers/admin"
	"techgo/middleware"
	"techgo/routers/adminRoutes"
	"techgo/routers/comparisonRoutes"
	"techgo/routers/gadgetRoutes"
	"techgo/routers/reviewRoutes"
	"techgo/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Options struct {
	CorsOrigins string
	// AccessLog writes one line per request
	AccessLog bool
}

// NewApp builds the HTTP application over svc.
func NewApp(svc *services.Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "techgo",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CorsOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/health", adminController.New(svc).Health)

	api := app.Group("/api")
	gadgetRoutes.SetupGadgetRoutes(api, svc)
	reviewRoutes.SetupReviewRoutes(api, svc)
	comparisonRoutes.SetupComparisonRoutes(api, svc)
	adminRoutes.SetupAdminRoutes(api, svc)

	return app
}
