package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every ops endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess answers 200 with data.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus answers with data under a non-default status, e.g. a degraded health probe.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{Success: true, Data: data, Message: message})
}

// SendError answers with an error envelope and no data.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = fiber.ErrInternalServerError.Message
	}

	return c.Status(status).JSON(APIResponse{Message: message})
}
