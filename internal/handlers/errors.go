package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/NishantsCode/NextHire/internal/repositories"
	"github.com/NishantsCode/NextHire/internal/services"
)

var errorStatuses = []struct {
	target error
	status int
}{
	{repositories.ErrNotFound, fiber.StatusNotFound},
	{services.ErrUnsupportedFormat, fiber.StatusUnsupportedMediaType},
	{services.ErrExtractionFailure, fiber.StatusUnprocessableEntity},
	{services.ErrAIUnavailable, fiber.StatusServiceUnavailable},
	{services.ErrSearchUnavailable, fiber.StatusServiceUnavailable},
	{services.ErrMalformedAIResponse, fiber.StatusBadGateway},
	{services.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},
	{services.ErrInvalidOverride, fiber.StatusBadRequest},
	{services.ErrMissingJobDetails, fiber.StatusBadRequest},
	{services.ErrInvalidStatus, fiber.StatusBadRequest},
	{services.ErrInvalidJobStatus, fiber.StatusBadRequest},
	{errInvalidUserID, fiber.StatusBadRequest},
	{errIdentityRequired, fiber.StatusUnauthorized},
	{errDocumentKind, fiber.StatusBadRequest},
	{services.ErrJobClosed, fiber.StatusBadRequest},
	{services.ErrDuplicateApplication, fiber.StatusConflict},
	{context.DeadlineExceeded, fiber.StatusGatewayTimeout},
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	var incomplete *services.IncompleteJobError
	if errors.As(err, &incomplete) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":              incomplete.Error(),
			"requiresCompletion": true,
			"missingFields":      incomplete.MissingFields,
			"extractedData":      incomplete.Draft,
		})
	}

	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func badRequest(c *fiber.Ctx, message string, details ...string) error {
	body := fiber.Map{"error": message}
	if len(details) > 0 {
		body["details"] = details
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}
