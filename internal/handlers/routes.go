package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type Routes struct {
	Jobs          *JobHandler
	Applications  *ApplicationHandler
	ATS           *ATSHandler
	AIConfigured  bool
	SearchEnabled bool
}

// Register mounts every endpoint under router. Static segments are
// registered before parameterised ones.
func (r Routes) Register(router fiber.Router) {
	router.Get("/health", HandleHealth(r.AIConfigured, r.SearchEnabled))

	router.Post("/jobs", r.Jobs.HandleCreate)
	router.Get("/jobs", r.Jobs.HandleList)
	router.Get("/jobs/search", r.Jobs.HandleSearch)
	router.Get("/jobs/:id", r.Jobs.HandleGet)
	router.Put("/jobs/:id", r.Jobs.HandleUpdate)
	router.Delete("/jobs/:id", r.Jobs.HandleDelete)

	router.Post("/jobs/:id/applications", r.Applications.HandleApply)
	router.Get("/jobs/:id/applications", r.Applications.HandleListByJob)
	router.Get("/applications/mine", r.Applications.HandleListMine)
	router.Get("/applications/applied-jobs", r.Applications.HandleAppliedJobs)
	router.Put("/applications/bulk/status", r.Applications.HandleBulkUpdateStatus)
	router.Put("/applications/:id/status", r.Applications.HandleUpdateStatus)

	router.Post("/ats/calculate/:applicationId", r.ATS.HandleCalculate)
	router.Post("/ats/calculate-job/:jobId", r.ATS.HandleCalculateJob)
}

// ErrorHandler renders errors that escape a handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
