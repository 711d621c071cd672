package handler_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/buildbot/internal/config"
	"github.com/noah-isme/buildbot/internal/handler"
)

type staticGateway bool

func (g staticGateway) Ready() bool { return bool(g) }

func healthRequest(t *testing.T, gateway handler.GatewayStatus) (int, handler.HealthResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/health", handler.HealthCheck(config.Config{AppName: "Test", AppEnv: "test"}, gateway))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Success bool                   `json:"success"`
		Data    handler.HealthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	return resp.StatusCode, body.Data
}

func TestHealthCheckReady(t *testing.T) {
	status, payload := healthRequest(t, staticGateway(true))
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "ok", payload.Status)
	require.Equal(t, "ready", payload.Gateway)
	require.Equal(t, "Test", payload.Service)
}

func TestHealthCheckGatewayConnecting(t *testing.T) {
	status, payload := healthRequest(t, staticGateway(false))
	require.Equal(t, fiber.StatusServiceUnavailable, status)
	require.Equal(t, "degraded", payload.Status)
	require.Equal(t, "connecting", payload.Gateway)
}

func TestHealthCheckWithoutGateway(t *testing.T) {
	status, payload := healthRequest(t, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "disabled", payload.Gateway)
}
