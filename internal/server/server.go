// Package server assembles the HTTP application from its services.
package server

import (
	"errors"
	"time"

	"stockdesk/internal/database"
	"stockdesk/internal/handlers"
	"stockdesk/internal/middleware"
	"stockdesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Deps are the collaborators of the HTTP application. Publisher and Cache
// are optional.
type Deps struct {
	Store        *database.Store
	Log          *zap.Logger
	Metrics      *middleware.Metrics
	Publisher    services.EventPublisher
	Cache        services.ListCache
	StoreTimeout time.Duration
}

// Services groups the domain services built by NewServices.
type Services struct {
	Categories *services.CategoryService
	Products   *services.ProductService
	Users      *services.UserService
}

// NewServices wires the domain services over the store in d.
func NewServices(d Deps) Services {
	opts := []services.Option{
		services.WithLogger(d.Log),
		services.WithStoreTimeout(d.StoreTimeout),
	}
	if d.Publisher != nil {
		opts = append(opts, services.WithPublisher(d.Publisher))
	}
	if d.Cache != nil {
		opts = append(opts, services.WithCache(d.Cache))
	}

	return Services{
		Categories: services.NewCategoryService(d.Store.Categories, opts...),
		Products:   services.NewProductService(d.Store.Products, opts...),
		Users:      services.NewUserService(d.Store.Users, opts...),
	}
}

// New builds the Fiber application: middleware, /health, /metrics and the
// /api routes.
func New(d Deps, svc Services) *fiber.App {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	metrics := d.Metrics
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}

	app := fiber.New(fiber.Config{
		AppName:      "stockdesk",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(metrics.Middleware())
	app.Use(cors.New())

	handlers.NewHealthHandler(d.Store, d.Store.Driver, log).RegisterRoutes(app)
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")
	handlers.NewCategoryHandler(svc.Categories, log).RegisterRoutes(api)
	handlers.NewProductHandler(svc.Products, log).RegisterRoutes(api)
	handlers.NewUserHandler(svc.Users, log).RegisterRoutes(api)

	return app
}

// errorHandler renders errors that escaped a handler as {"message": ...}.
// Internal details are logged, never returned.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
