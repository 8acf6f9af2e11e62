package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/NishantsCode/NextHire/internal/services"
)

type ATSHandler struct {
	appService *services.ApplicationService
}

func NewATSHandler(appService *services.ApplicationService) *ATSHandler {
	return &ATSHandler{appService: appService}
}

// HandleCalculate handles POST /ats/calculate/:applicationId
func (h *ATSHandler) HandleCalculate(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return badRequest(c, "Invalid application ID format")
	}

	app, err := h.appService.ScoreApplication(c.UserContext(), appID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "ATS score calculated",
		"application": app,
		"atsScore":    app.ATSScore,
	})
}

// HandleCalculateJob handles POST /ats/calculate-job/:jobId. Per-candidate
// failures are reported in the body with status 200.
func (h *ATSHandler) HandleCalculateJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	summary, err := h.appService.ScoreJob(c.UserContext(), jobID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "ATS scoring completed",
		"results":      summary.Results,
		"succeeded":    summary.Succeeded,
		"failed":       summary.Failed,
		"applications": summary.Applications,
	})
}
