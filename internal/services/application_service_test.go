package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NishantsCode/NextHire/internal/models"
	"github.com/NishantsCode/NextHire/internal/repositories"
)

type recordingQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (q *recordingQueue) Enqueue(id uuid.UUID) {
	q.mu.Lock()
	q.ids = append(q.ids, id)
	q.mu.Unlock()
}

type applicationFixture struct {
	jobs *fakeJobRepo
	apps *fakeAppRepo
	svc  *ApplicationService
	job  models.Job
}

func newApplicationFixture(t *testing.T, completion CompletionService, extractor TextExtractor) *applicationFixture {
	t.Helper()

	jobs := newFakeJobRepo()
	job := models.Job{
		Title:        "Backend Engineer",
		Description:  "Build APIs in Go",
		Status:       models.JobStatusActive,
		StructuredJD: &models.StructuredJD{RequiredSkills: []string{"Go"}},
	}
	require.NoError(t, jobs.Create(&job))

	apps := newFakeAppRepo()
	scorer := NewScoringEngine(completion, extractor, nil)
	svc := NewApplicationService(apps, jobs, scorer, NewBulkScoringCoordinator(scorer, 2, nil), nil)

	return &applicationFixture{jobs: jobs, apps: apps, svc: svc, job: job}
}

func (f *applicationFixture) apply(t *testing.T, name, email string) *models.Application {
	t.Helper()
	app, err := f.svc.Apply(context.Background(), ApplyInput{
		JobID:    f.job.ID,
		FullName: name,
		Email:    email,
		Resume:   &models.Document{ID: uuid.New(), FilePath: "uploads/" + name + ".pdf", MimeType: MediaTypePDF},
	})
	require.NoError(t, err)
	return app
}

func TestApplicationService_Apply(t *testing.T) {
	f := newApplicationFixture(t, fixedReply(validScoreReply), &countingExtractor{})
	queue := &recordingQueue{}
	f.svc.SetScoreQueue(queue)

	app := f.apply(t, "asha", " asha@example.com ")

	assert.Equal(t, "asha@example.com", app.Email)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, "uploads/asha.pdf", app.ResumeDocument.FilePath)
	assert.Equal(t, []uuid.UUID{app.ID}, queue.ids)
}

func TestApplicationService_ApplyRejections(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		f := newApplicationFixture(t, fixedReply(validScoreReply), &countingExtractor{})
		f.apply(t, "asha", "asha@example.com")

		_, err := f.svc.Apply(context.Background(), ApplyInput{
			JobID:  f.job.ID,
			Email:  "ASHA@example.com",
			Resume: &models.Document{ID: uuid.New()},
		})
		assert.ErrorIs(t, err, ErrDuplicateApplication)
	})

	t.Run("closed job", func(t *testing.T) {
		f := newApplicationFixture(t, fixedReply(validScoreReply), &countingExtractor{})
		closed := f.job
		closed.Status = models.JobStatusClosed
		f.jobs.jobs[closed.ID] = closed

		_, err := f.svc.Apply(context.Background(), ApplyInput{JobID: closed.ID, Email: "a@b.c", Resume: &models.Document{}})
		assert.ErrorIs(t, err, ErrJobClosed)
	})

	t.Run("unknown job", func(t *testing.T) {
		f := newApplicationFixture(t, fixedReply(validScoreReply), &countingExtractor{})

		_, err := f.svc.Apply(context.Background(), ApplyInput{JobID: uuid.New(), Email: "a@b.c", Resume: &models.Document{}})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestApplicationService_ScoreApplication(t *testing.T) {
	f := newApplicationFixture(t, fixedReply(validScoreReply), &countingExtractor{})
	app := f.apply(t, "ravi", "ravi@example.com")

	scored, err := f.svc.ScoreApplication(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, 72, scored.ATSScore.Score)

	stored, err := f.apps.FindByID(app.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ATSScore)
	assert.Equal(t, 72, stored.ATSScore.Score)
}

func TestApplicationService_ScoreApplicationLeavesScoreOnFailure(t *testing.T) {
	f := newApplicationFixture(t, fixedReply("no json here"), &countingExtractor{})
	app := f.apply(t, "ravi", "ravi@example.com")

	_, err := f.svc.ScoreApplication(context.Background(), app.ID)
	assert.ErrorIs(t, err, ErrMalformedAIResponse)

	stored, err := f.apps.FindByID(app.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ATSScore)
}

func TestApplicationService_ScoreJob(t *testing.T) {
	// the extracted resume text carries the file path, the stub scores by it
	completion := newStubCompletion(func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "uploads/low.pdf"):
			return `{"score": 40}`, nil
		case strings.Contains(prompt, "uploads/high.pdf"):
			return `{"score": 95}`, nil
		default:
			return "", ErrAIUnavailable
		}
	})
	f := newApplicationFixture(t, completion, &countingExtractor{})

	low := f.apply(t, "low", "low@example.com")
	high := f.apply(t, "high", "high@example.com")
	broken := f.apply(t, "broken", "broken@example.com")

	summary, err := f.svc.ScoreJob(context.Background(), f.job.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 3)

	require.Len(t, summary.Applications, 3)
	assert.Equal(t, high.ID, summary.Applications[0].ID)
	assert.Equal(t, low.ID, summary.Applications[1].ID)
	assert.Equal(t, broken.ID, summary.Applications[2].ID)

	stored, err := f.apps.FindByID(high.ID)
	require.NoError(t, err)
	assert.Equal(t, 95, stored.ATSScore.Score)

	stored, err = f.apps.FindByID(broken.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ATSScore)
}

func TestApplicationService_ScoreJobPersistFailure(t *testing.T) {
	f := newApplicationFixture(t, fixedReply(validScoreReply), &countingExtractor{})
	f.apply(t, "asha", "asha@example.com")
	f.apps.updateErr = errBoom

	summary, err := f.svc.ScoreJob(context.Background(), f.job.ID)
	require.NoError(t, err)

	assert.Zero(t, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, errors.Is(summary.Results[0].Err, errBoom))
}

func TestApplicationService_Statuses(t *testing.T) {
	f := newApplicationFixture(t, fixedReply(validScoreReply), &countingExtractor{})
	a := f.apply(t, "a", "a@example.com")
	b := f.apply(t, "b", "b@example.com")

	updated, err := f.svc.UpdateStatus(a.ID, models.ApplicationShortlisted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationShortlisted, updated.Status)

	_, err = f.svc.UpdateStatus(a.ID, "hired")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	count, err := f.svc.BulkUpdateStatus([]uuid.UUID{a.ID, b.ID, uuid.New()}, models.ApplicationRejected)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = f.svc.BulkUpdateStatus([]uuid.UUID{a.ID}, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestApplicationService_ListRanked(t *testing.T) {
	f := newApplicationFixture(t, fixedReply(validScoreReply), &countingExtractor{})
	first := f.apply(t, "first", "first@example.com")
	time.Sleep(time.Millisecond)
	second := f.apply(t, "second", "second@example.com")
	require.NoError(t, f.apps.UpdateATSScore(first.ID, &models.ATSScore{Score: 10}))

	job, ranked, err := f.svc.ListRanked(f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, f.job.ID, job.ID)
	require.Len(t, ranked, 2)
	assert.Equal(t, first.ID, ranked[0].ID)
	assert.Equal(t, second.ID, ranked[1].ID)
}

func TestJobContextFor(t *testing.T) {
	jc := JobContextFor(&models.Job{Title: "Analyst", Description: "Numbers"})
	assert.Equal(t, "Analyst", jc.Title)
	assert.NotNil(t, jc.StructuredJD.RequiredSkills)
}

func TestApplicationService_ApplicantViews(t *testing.T) {
	f := newApplicationFixture(t, fixedReply(validScoreReply), &countingExtractor{})
	other := models.Job{Title: "Data Analyst", Description: "SQL reports", Status: models.JobStatusActive}
	require.NoError(t, f.jobs.Create(&other))

	applicant := uuid.New()
	applyAs := func(jobID uuid.UUID, email string) *models.Application {
		app, err := f.svc.Apply(context.Background(), ApplyInput{
			JobID:    jobID,
			UserID:   &applicant,
			FullName: "Asha",
			Email:    email,
			Resume:   &models.Document{ID: uuid.New(), FilePath: "uploads/asha.pdf", MimeType: MediaTypePDF},
		})
		require.NoError(t, err)
		return app
	}

	first := applyAs(f.job.ID, "asha@example.com")
	time.Sleep(time.Millisecond)
	second := applyAs(other.ID, "asha@example.com")
	f.apply(t, "anon", "anon@example.com")

	mine, err := f.svc.ListForUser(applicant)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest first")
	assert.Equal(t, first.ID, mine[1].ID)
	require.NotNil(t, mine[0].Job)
	assert.Equal(t, "Data Analyst", mine[0].Job.Title)
	assert.Equal(t, "Backend Engineer", mine[1].Job.Title)

	ids, err := f.svc.AppliedJobIDs(applicant)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{other.ID, f.job.ID}, ids)

	none, err := f.svc.ListForUser(uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	ids, err = f.svc.AppliedJobIDs(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
