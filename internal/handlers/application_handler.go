package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/NishantsCode/NextHire/internal/models"
	"github.com/NishantsCode/NextHire/internal/services"
)

type ApplicationHandler struct {
	appService *services.ApplicationService
	uploads    *UploadHandler
}

func NewApplicationHandler(appService *services.ApplicationService, uploads *UploadHandler) *ApplicationHandler {
	return &ApplicationHandler{
		appService: appService,
		uploads:    uploads,
	}
}

// HandleApply handles POST /jobs/:id/applications
func (h *ApplicationHandler) HandleApply(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	var req models.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if details := validateRequest(req); details != nil {
		return badRequest(c, "Validation failed", details...)
	}

	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "Resume is required")
	}

	resume, err := h.uploads.StoreDocument(file, models.DocumentKindResume, userID)
	if err != nil {
		return respondError(c, err)
	}

	app, err := h.appService.Apply(c.UserContext(), services.ApplyInput{
		JobID:             jobID,
		UserID:            userID,
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		YearsOfExperience: req.YearsOfExperience,
		CoverLetter:       req.CoverLetter,
		Resume:            resume,
	})
	if err != nil {
		h.uploads.Discard(resume)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Application submitted successfully",
		"application": app,
	})
}

// HandleListMine handles GET /applications/mine
func (h *ApplicationHandler) HandleListMine(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	apps, err := h.appService.ListForUser(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"applications": apps,
	})
}

// HandleAppliedJobs handles GET /applications/applied-jobs
func (h *ApplicationHandler) HandleAppliedJobs(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	ids, err := h.appService.AppliedJobIDs(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"appliedJobIds": ids,
	})
}

// HandleListByJob handles GET /jobs/:id/applications
func (h *ApplicationHandler) HandleListByJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	job, apps, err := h.appService.ListRanked(jobID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ApplicationListResponse{
		Job:          job,
		Applications: apps,
	})
}

// HandleUpdateStatus handles PUT /applications/:id/status
func (h *ApplicationHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid application ID format")
	}

	var req models.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if details := validateRequest(req); details != nil {
		return badRequest(c, "Validation failed", details...)
	}

	app, err := h.appService.UpdateStatus(appID, models.ApplicationStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Application status updated",
		"application": app,
	})
}

// HandleBulkUpdateStatus handles PUT /applications/bulk/status
func (h *ApplicationHandler) HandleBulkUpdateStatus(c *fiber.Ctx) error {
	var req models.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if details := validateRequest(req); details != nil {
		return badRequest(c, "Validation failed", details...)
	}

	ids := make([]uuid.UUID, 0, len(req.ApplicationIDs))
	for _, raw := range req.ApplicationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid application ID format")
		}
		ids = append(ids, id)
	}

	updated, err := h.appService.BulkUpdateStatus(ids, models.ApplicationStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Application statuses updated",
		"updatedCount": updated,
	})
}
