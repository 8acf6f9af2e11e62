package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/NishantsCode/NextHire/internal/models"
	"github.com/NishantsCode/NextHire/internal/repositories"
	"github.com/NishantsCode/NextHire/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
	uploads    *UploadHandler
}

func NewJobHandler(jobService *services.JobService, uploads *UploadHandler) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		uploads:    uploads,
	}
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateJobRequest
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

	override, err := services.ParseStructuredJDOverride(req.StructuredJD)
	if err != nil {
		return respondError(c, err)
	}

	input := services.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Override:    override,
		CreatedBy:   userID,
	}

	if file, err := c.FormFile("jdFile"); err == nil {
		doc, err := h.uploads.StoreDocument(file, models.DocumentKindJobDescription, userID)
		if err != nil {
			return respondError(c, err)
		}
		input.JDDocument = doc
	} else if req.JDDocumentID != "" {
		doc, err := h.uploads.LoadDocument(uuid.MustParse(req.JDDocumentID), models.DocumentKindJobDescription, userID)
		if err != nil {
			return respondError(c, err)
		}
		input.DraftDocument = doc
	}

	job, err := h.jobService.Create(c.UserContext(), input)
	if err != nil {
		// an incomplete draft keeps its JD so the client can resubmit it
		var incomplete *services.IncompleteJobError
		if !errors.As(err, &incomplete) {
			h.uploads.Discard(input.JDDocument)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Job created successfully",
		"job":     job,
	})
}

// HandleUpdate handles PUT /jobs/:id
func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	var req models.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if details := validateRequest(req); details != nil {
		return badRequest(c, "Validation failed", details...)
	}

	job, err := h.jobService.Update(c.UserContext(), jobID, services.UpdateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.JobStatus(req.Status),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Job updated successfully",
		"job":     job,
	})
}

// HandleDelete handles DELETE /jobs/:id
func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	if err := h.jobService.Delete(c.UserContext(), jobID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Job deleted successfully",
	})
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	var q models.ListJobsQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	if details := validateRequest(q); details != nil {
		return badRequest(c, "Validation failed", details...)
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	filter := repositories.JobFilter{
		Status: models.JobStatus(q.Status),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.Mine {
		userID, err := requireUserID(c)
		if err != nil {
			return respondError(c, err)
		}
		filter.CreatedBy = &userID
	}

	jobs, total, err := h.jobService.List(filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.JobListResponse{
		Jobs:   jobs,
		Total:  total,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	job, err := h.jobService.Get(jobID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"job":        job,
		"jdDocument": models.NewDocumentResponse(job.JDDocument),
	})
}

// HandleSearch handles GET /jobs/search
func (h *JobHandler) HandleSearch(c *fiber.Ctx) error {
	var q models.SearchJobsQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	if details := validateRequest(q); details != nil {
		return badRequest(c, "Validation failed", details...)
	}

	jobs, err := h.jobService.Search(c.UserContext(), q.Query, q.Limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"query": q.Query,
		"jobs":  jobs,
	})
}
