package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/logger"
	"github.com/NishantsCode/NextHire/internal/models"
	"github.com/NishantsCode/NextHire/internal/repositories"
)

var (
	ErrJobClosed            = errors.New("this job is no longer accepting applications")
	ErrDuplicateApplication = errors.New("an application with this email already exists for the job")
	ErrInvalidStatus        = errors.New("invalid application status")
)

// ScoreQueue receives applications to score in the background.
type ScoreQueue interface {
	Enqueue(applicationID uuid.UUID)
}

type ApplyInput struct {
	JobID             uuid.UUID
	UserID            *uuid.UUID
	FullName          string
	Email             string
	Phone             string
	YearsOfExperience string
	CoverLetter       string
	Resume            *models.Document
}

// JobScoringSummary is the outcome of scoring every applicant of a job.
type JobScoringSummary struct {
	Results      []BulkScoringResult  `json:"results"`
	Succeeded    int                  `json:"succeeded"`
	Failed       int                  `json:"failed"`
	Applications []models.Application `json:"applications"`
}

type ApplicationService struct {
	appRepo     repositories.ApplicationRepository
	jobRepo     repositories.JobRepository
	scorer      ResumeScorer
	coordinator *BulkScoringCoordinator
	queue       ScoreQueue
	logger      *zap.Logger
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	scorer ResumeScorer,
	coordinator *BulkScoringCoordinator,
	log *zap.Logger,
) *ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationService{
		appRepo:     appRepo,
		jobRepo:     jobRepo,
		scorer:      scorer,
		coordinator: coordinator,
		logger:      log,
	}
}

// SetScoreQueue enables background scoring of new applications.
func (s *ApplicationService) SetScoreQueue(queue ScoreQueue) {
	s.queue = queue
}

func (s *ApplicationService) Apply(ctx context.Context, input ApplyInput) (*models.Application, error) {
	job, err := s.jobRepo.FindByID(input.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusClosed {
		return nil, ErrJobClosed
	}

	email := strings.TrimSpace(input.Email)
	exists, err := s.appRepo.ExistsForJob(job.ID, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateApplication
	}

	app := &models.Application{
		JobID:             job.ID,
		UserID:            input.UserID,
		FullName:          strings.TrimSpace(input.FullName),
		Email:             email,
		Phone:             strings.TrimSpace(input.Phone),
		YearsOfExperience: strings.TrimSpace(input.YearsOfExperience),
		CoverLetter:       input.CoverLetter,
		ResumeDocumentID:  input.Resume.ID,
		ResumeDocument:    *input.Resume,
		Status:            models.ApplicationPending,
	}
	if err := s.appRepo.Create(app); err != nil {
		return nil, err
	}

	s.logger.Info("application submitted",
		zap.String(logger.FieldApplicationID, app.ID.String()),
		zap.String(logger.FieldJobID, job.ID.String()),
	)

	if s.queue != nil {
		s.queue.Enqueue(app.ID)
	}

	return app, nil
}

// ListForUser returns an applicant's own applications, newest first, each
// with its job.
func (s *ApplicationService) ListForUser(userID uuid.UUID) ([]models.UserApplication, error) {
	apps, err := s.appRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return []models.UserApplication{}, nil
	}

	jobIDs := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		jobIDs = append(jobIDs, app.JobID)
	}
	jobs, err := s.jobRepo.FindByIDs(jobIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}

	out := make([]models.UserApplication, len(apps))
	for i, app := range apps {
		out[i] = models.UserApplication{Application: app, Job: byID[app.JobID]}
	}
	return out, nil
}

// AppliedJobIDs returns the distinct jobs an applicant has applied to.
func (s *ApplicationService) AppliedJobIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	apps, err := s.appRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(apps))
	ids := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		if !seen[app.JobID] {
			seen[app.JobID] = true
			ids = append(ids, app.JobID)
		}
	}
	return ids, nil
}

// ListRanked returns the job and its applications in ranking order.
func (s *ApplicationService) ListRanked(jobID uuid.UUID) (*models.Job, []models.Application, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, nil, err
	}

	apps, err := s.appRepo.ListByJob(jobID)
	if err != nil {
		return nil, nil, err
	}

	return job, RankApplications(apps), nil
}

func (s *ApplicationService) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.appRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	return s.appRepo.FindByID(id)
}

func (s *ApplicationService) BulkUpdateStatus(ids []uuid.UUID, status models.ApplicationStatus) (int64, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.appRepo.BulkUpdateStatus(ids, status)
}

// ScoreApplication scores one application and stores the record on it.
func (s *ApplicationService) ScoreApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.appRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindByID(app.JobID)
	if err != nil {
		return nil, err
	}

	record, err := s.scorer.Score(ctx, resumeSourceFor(app), JobContextFor(job))
	if err != nil {
		return nil, err
	}

	if err := s.appRepo.UpdateATSScore(app.ID, record); err != nil {
		return nil, err
	}
	app.ATSScore = record

	s.logger.Info("application scored",
		zap.String(logger.FieldApplicationID, app.ID.String()),
		zap.Int("score", record.Score),
	)

	return app, nil
}

// ScoreJob scores every applicant of a job in batches, stores each success
// and returns the ranked list.
func (s *ApplicationService) ScoreJob(ctx context.Context, jobID uuid.UUID) (*JobScoringSummary, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, err
	}

	apps, err := s.appRepo.ListByJob(jobID)
	if err != nil {
		return nil, err
	}

	candidates := make([]BulkCandidate, len(apps))
	for i := range apps {
		candidates[i] = BulkCandidate{ID: apps[i].ID.String(), Resume: resumeSourceFor(&apps[i])}
	}

	results := s.coordinator.ScoreAll(ctx, JobContextFor(job), candidates)

	for i := range results {
		if !results[i].Success {
			continue
		}
		if err := s.appRepo.UpdateATSScore(apps[i].ID, results[i].ATSScore); err != nil {
			s.logger.Warn("failed to store ATS score", zap.String(logger.FieldApplicationID, apps[i].ID.String()), zap.Error(err))
			results[i] = failedResult(results[i].CandidateID, err)
			continue
		}
		apps[i].ATSScore = results[i].ATSScore
	}

	succeeded, failed := CountSuccesses(results)
	s.logger.Info("job scoring completed",
		zap.String(logger.FieldJobID, job.ID.String()),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
	)

	return &JobScoringSummary{
		Results:      results,
		Succeeded:    succeeded,
		Failed:       failed,
		Applications: RankApplications(apps),
	}, nil
}

// JobContextFor converts a stored job into scoring input.
func JobContextFor(job *models.Job) JobContext {
	jc := JobContext{Title: job.Title, Description: job.Description}
	if job.StructuredJD != nil {
		jc.StructuredJD = *job.StructuredJD
	}
	jc.StructuredJD.EnsureDefaults()
	return jc
}

func resumeSourceFor(app *models.Application) ResumeSource {
	return ResumeSource{
		ID:        app.ResumeDocumentID.String(),
		FilePath:  app.ResumeDocument.FilePath,
		MediaType: app.ResumeDocument.MimeType,
	}
}
