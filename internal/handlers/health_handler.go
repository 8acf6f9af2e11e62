package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports liveness and whether AI features are configured.
func HandleHealth(aiConfigured, searchEnabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"ai":        aiConfigured,
			"search":    searchEnabled,
			"timestamp": time.Now().UTC(),
		})
	}
}
