package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/buildbot/internal/config"
	"github.com/noah-isme/buildbot/internal/handler"
	"github.com/noah-isme/buildbot/internal/observability"
	"github.com/noah-isme/buildbot/internal/utils"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Gateway handler.GatewayStatus
}

// Register wires the ops routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Gateway))

	app.Get("/metrics", observability.MetricsHandler())

	app.Use(func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "route not found")
	})
}
