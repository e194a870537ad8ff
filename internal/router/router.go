package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/norte-express/fleet-api/internal/config"
	"github.com/norte-express/fleet-api/internal/handler"
	"github.com/norte-express/fleet-api/internal/middleware"
	"github.com/norte-express/fleet-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	UserHandler     *handler.UserHandler
	BusHandler      *handler.BusHandler
	ActivityHandler *handler.ActivityHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	if deps.UserHandler != nil {
		users := api.Group("/users")
		users.Use("/login", middleware.RateLimit("login", 10, time.Minute))
		deps.UserHandler.RegisterPublic(users)

		protected := api.Group("/users", jwtMiddleware, middleware.RequireUser())
		deps.UserHandler.RegisterProtected(protected)
	}

	if deps.BusHandler != nil {
		buses := api.Group("/buses", jwtMiddleware, middleware.RequireUser())
		deps.BusHandler.Register(buses, adminOnly)
	}

	// Audit log reads are restricted to administrators.
	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwtMiddleware, adminOnly)
		deps.ActivityHandler.Register(activities)
	}

	handler.RegisterTransitStubs(api)
}
