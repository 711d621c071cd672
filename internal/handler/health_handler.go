package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/buildbot/internal/config"
	"github.com/noah-isme/buildbot/internal/utils"
)

// GatewayStatus reports whether the Discord gateway session is ready.
type GatewayStatus interface {
	Ready() bool
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Gateway     string    `json:"gateway"`
}

// HealthCheck reports process health. A disconnected gateway degrades the status and answers 503.
func HealthCheck(cfg config.Config, gateway GatewayStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Gateway:     "disabled",
		}

		if gateway != nil {
			payload.Gateway = "ready"
			if !gateway.Ready() {
				payload.Gateway = "connecting"
				payload.Status = "degraded"
				return utils.SendSuccessWithStatus(c, fiber.StatusServiceUnavailable, "gateway not ready", payload)
			}
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
