package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/logger"
	"github.com/NishantsCode/NextHire/internal/models"
	"github.com/NishantsCode/NextHire/internal/repositories"
)

var (
	// ErrMissingJobDetails is returned when neither a usable JD document nor
	// a title and description are given.
	ErrMissingJobDetails = errors.New("either upload a JD file or provide title and description")
	// ErrJobCodeExhausted is returned when no unused job code was found.
	ErrJobCodeExhausted = errors.New("failed to generate a unique job code")
	ErrInvalidJobStatus = errors.New("invalid job status")
)

const (
	jobCodeAttempts = 10
	jobCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	jobCodeLength   = 5
)

// requiredJobFields lists the structured fields a job must carry, with the
// labels reported back to the client.
var requiredJobFields = []struct {
	label string
	get   func(jd models.StructuredJD) []string
}{
	{"Location", func(jd models.StructuredJD) []string { return []string{jd.Location} }},
	{"Stipend/Salary Range", func(jd models.StructuredJD) []string { return []string{jd.Salary} }},
	{"Experience Level", func(jd models.StructuredJD) []string { return []string{jd.Experience} }},
	{"Required Skills", func(jd models.StructuredJD) []string { return jd.RequiredSkills }},
	{"Preferred Skills", func(jd models.StructuredJD) []string { return jd.PreferredSkills }},
	{"Responsibilities", func(jd models.StructuredJD) []string { return jd.RolesAndResponsibilities }},
	{"Eligibility", func(jd models.StructuredJD) []string { return jd.Eligibility }},
}

// IncompleteJobError carries the missing field labels and the draft built so
// far so the client can complete it.
type IncompleteJobError struct {
	MissingFields []string
	Draft         JobDraft
}

func (e *IncompleteJobError) Error() string {
	return "please provide the following required fields: " + strings.Join(e.MissingFields, ", ")
}

// JobDraft is the job as extracted before completeness validation.
type JobDraft struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	StructuredJD models.StructuredJD `json:"structuredJD"`
	JDDocumentID *uuid.UUID          `json:"jdDocumentId,omitempty"`
}

type CreateJobInput struct {
	Title       string
	Description string
	Override    *models.StructuredJD
	// JDDocument is structured by the AI and linked to the job.
	JDDocument *models.Document
	// DraftDocument is a JD kept from an earlier incomplete attempt. It is
	// linked as is; the resubmitted draft supplies the fields.
	DraftDocument *models.Document
	CreatedBy     *uuid.UUID
}

// UpdateJobInput holds the fields to change. Empty values are left alone.
type UpdateJobInput struct {
	Title       string
	Description string
	Status      models.JobStatus
}

// JobStructurer is the part of StructuringEngine JobService needs.
type JobStructurer interface {
	Structure(ctx context.Context, jdText string) (*StructuringResult, error)
}

type JobService struct {
	jobRepo    repositories.JobRepository
	extractor  TextExtractor
	structurer JobStructurer
	search     *JobSearchService
	logger     *zap.Logger
	now        func() time.Time
}

func NewJobService(
	jobRepo repositories.JobRepository,
	extractor TextExtractor,
	structurer JobStructurer,
	search *JobSearchService,
	log *zap.Logger,
) *JobService {
	if log == nil {
		log = zap.NewNop()
	}
	return &JobService{
		jobRepo:    jobRepo,
		extractor:  extractor,
		structurer: structurer,
		search:     search,
		logger:     log,
		now:        time.Now,
	}
}

// Create builds a job from an optional JD document plus manual input, where
// manual input wins. Extraction failures fall back to the manual title and
// description when both are present.
func (s *JobService) Create(ctx context.Context, input CreateJobInput) (*models.Job, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	var structured *models.StructuredJD

	if input.JDDocument != nil {
		result, err := s.structureDocument(ctx, input.JDDocument)
		if err != nil {
			if title == "" || description == "" {
				return nil, fmt.Errorf("failed to extract job details from file: %w", err)
			}
			s.logger.Warn("job description extraction failed, continuing with manual input",
				zap.String("document_id", input.JDDocument.ID.String()),
				zap.Error(err),
			)
		} else {
			if title == "" {
				title = result.StructuredJD.Title
			}
			if description == "" {
				description = result.Description
			}
			structured = &result.StructuredJD
		}
	}

	if input.Override != nil {
		base := models.StructuredJD{}
		if structured != nil {
			base = *structured
		}
		merged := base.Merge(*input.Override)
		structured = &merged
	}

	if title == "" || description == "" {
		return nil, ErrMissingJobDetails
	}

	draft := JobDraft{Title: title, Description: description}
	if structured != nil {
		draft.StructuredJD = *structured
	}
	draft.StructuredJD.EnsureDefaults()
	if input.JDDocument != nil {
		draft.JDDocumentID = &input.JDDocument.ID
	} else if input.DraftDocument != nil {
		draft.JDDocumentID = &input.DraftDocument.ID
	}

	if missing := MissingJobFields(draft.StructuredJD); len(missing) > 0 {
		return nil, &IncompleteJobError{MissingFields: missing, Draft: draft}
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		Code:         code,
		Title:        title,
		Description:  description,
		StructuredJD: &draft.StructuredJD,
		JDDocumentID: draft.JDDocumentID,
		CreatedBy:    input.CreatedBy,
		Status:       models.JobStatusActive,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}

	s.logger.Info("job created", zap.String(logger.FieldJobID, job.ID.String()), zap.String("job_code", code))
	s.index(ctx, job)

	return job, nil
}

// Update changes the title, description or status of a job. Closing a job
// stops new applications; existing ones are kept.
func (s *JobService) Update(ctx context.Context, id uuid.UUID, input UpdateJobInput) (*models.Job, error) {
	if input.Status != "" && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidJobStatus, input.Status)
	}

	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	textChanged := false
	if title := strings.TrimSpace(input.Title); title != "" && title != job.Title {
		job.Title = title
		textChanged = true
	}
	if description := strings.TrimSpace(input.Description); description != "" && description != job.Description {
		job.Description = description
		textChanged = true
	}
	if input.Status != "" {
		job.Status = input.Status
	}

	if err := s.jobRepo.Update(job); err != nil {
		return nil, err
	}

	s.logger.Info("job updated",
		zap.String(logger.FieldJobID, job.ID.String()),
		zap.String("status", string(job.Status)),
	)
	if textChanged {
		s.index(ctx, job)
	}

	return job, nil
}

// Delete removes a job, its applications and its search index entries.
func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.jobRepo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("job deleted", zap.String(logger.FieldJobID, id.String()))

	if s.search.Enabled() {
		if err := s.search.RemoveJob(ctx, id); err != nil {
			s.logger.Warn("failed to remove job from search index", zap.String(logger.FieldJobID, id.String()), zap.Error(err))
		}
	}
	return nil
}

// index refreshes the job's search entries. Failures only cost searchability.
func (s *JobService) index(ctx context.Context, job *models.Job) {
	if !s.search.Enabled() {
		return
	}
	if err := s.search.IndexJob(ctx, job); err != nil {
		s.logger.Warn("failed to index job for search", zap.String(logger.FieldJobID, job.ID.String()), zap.Error(err))
	}
}

func (s *JobService) structureDocument(ctx context.Context, doc *models.Document) (*StructuringResult, error) {
	text, err := s.extractor.Extract(ctx, doc.FilePath, doc.MimeType)
	if err != nil {
		return nil, err
	}
	return s.structurer.Structure(ctx, text)
}

// MissingJobFields returns the labels of required fields that are empty.
// A list counts as present when it has at least one non-blank entry.
func MissingJobFields(jd models.StructuredJD) []string {
	var missing []string
	for _, field := range requiredJobFields {
		if !hasNonBlank(field.get(jd)) {
			missing = append(missing, field.label)
		}
	}
	return missing
}

func hasNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// generateCode returns an unused JOB-YYYYMMDD-XXXXX code.
func (s *JobService) generateCode() (string, error) {
	date := s.now().UTC().Format("20060102")

	for attempt := 0; attempt < jobCodeAttempts; attempt++ {
		suffix, err := randomCode(jobCodeLength)
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("JOB-%s-%s", date, suffix)

		exists, err := s.jobRepo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", ErrJobCodeExhausted
}

func randomCode(n int) (string, error) {
	max := big.NewInt(int64(len(jobCodeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate job code: %w", err)
		}
		b[i] = jobCodeAlphabet[idx.Int64()]
	}
	return string(b), nil
}

func (s *JobService) Get(id uuid.UUID) (*models.Job, error) {
	return s.jobRepo.FindByID(id)
}

func (s *JobService) List(filter repositories.JobFilter) ([]models.Job, int64, error) {
	return s.jobRepo.List(filter)
}

// Search returns matching jobs in relevance order.
func (s *JobService) Search(ctx context.Context, query string, limit int) ([]models.Job, error) {
	matches, err := s.search.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []models.Job{}, nil
	}

	ids := make([]uuid.UUID, len(matches))
	for i, m := range matches {
		ids[i] = m.JobID
	}

	found, err := s.jobRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Job, len(found))
	for _, job := range found {
		byID[job.ID] = job
	}

	jobs := make([]models.Job, 0, len(matches))
	for _, m := range matches {
		if job, ok := byID[m.JobID]; ok {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// Reindex indexes every stored job and returns how many succeeded.
func (s *JobService) Reindex(ctx context.Context) (int, error) {
	if !s.search.Enabled() {
		return 0, ErrSearchUnavailable
	}

	jobs, err := s.jobRepo.ListAll()
	if err != nil {
		return 0, err
	}

	indexed := 0
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		if err := s.search.IndexJob(ctx, &jobs[i]); err != nil {
			s.logger.Warn("failed to index job", zap.String(logger.FieldJobID, jobs[i].ID.String()), zap.Error(err))
			continue
		}
		indexed++
	}
	return indexed, nil
}
