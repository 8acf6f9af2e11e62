package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NishantsCode/NextHire/internal/models"
	"github.com/NishantsCode/NextHire/internal/repositories"
)

const completeStructuredReply = `{
	"title": "Data Engineer",
	"rolesAndResponsibilities": ["Build pipelines"],
	"eligibility": ["Bachelor's degree"],
	"requiredSkills": ["Python", "SQL"],
	"preferredSkills": ["Airflow"],
	"experience": "2-4 years",
	"education": "B.Tech",
	"location": "Bangalore",
	"employmentType": "Full-time",
	"salary": "12-18 LPA",
	"benefits": ["Health insurance"],
	"additionalInfo": ""
}`

var jobCodePattern = regexp.MustCompile(`^JOB-\d{8}-[0-9A-Z]{5}$`)

func completeOverride() *models.StructuredJD {
	return &models.StructuredJD{
		Location:                 "Remote",
		Salary:                   "Competitive",
		Experience:               "3+ years",
		RequiredSkills:           []string{"Go"},
		PreferredSkills:          []string{"Kubernetes"},
		RolesAndResponsibilities: []string{"Build services"},
		Eligibility:              []string{"Any degree"},
	}
}

func newTestJobService(repo *fakeJobRepo, extractor TextExtractor, reply string) *JobService {
	structurer := NewStructuringEngine(fixedReply(reply), nil)
	svc := NewJobService(repo, extractor, structurer, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestJobService_CreateFromDocument(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestJobService(repo, &countingExtractor{text: "JD text"}, completeStructuredReply)
	doc := &models.Document{ID: uuid.New(), FilePath: "uploads/jd.pdf", MimeType: MediaTypePDF}

	job, err := svc.Create(context.Background(), CreateJobInput{JDDocument: doc})
	require.NoError(t, err)

	assert.Equal(t, "Data Engineer", job.Title)
	assert.Contains(t, job.Description, "Location: Bangalore")
	assert.Equal(t, models.JobStatusActive, job.Status)
	require.NotNil(t, job.JDDocumentID)
	assert.Equal(t, doc.ID, *job.JDDocumentID)
	assert.Regexp(t, jobCodePattern, job.Code)
	assert.Equal(t, "JOB-20250714-", job.Code[:13])

	stored, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "SQL"}, stored.StructuredJD.RequiredSkills)
}

func TestJobService_ManualInputWins(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestJobService(repo, &countingExtractor{text: "JD text"}, completeStructuredReply)
	doc := &models.Document{ID: uuid.New(), FilePath: "uploads/jd.pdf", MimeType: MediaTypePDF}

	job, err := svc.Create(context.Background(), CreateJobInput{
		Title:      "Senior Data Engineer",
		JDDocument: doc,
		Override:   &models.StructuredJD{Location: "Hyderabad", Benefits: []string{"Stock options"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Data Engineer", job.Title)
	assert.Equal(t, "Hyderabad", job.StructuredJD.Location)
	assert.Equal(t, []string{"Stock options"}, job.StructuredJD.Benefits)
	assert.Equal(t, []string{"Python", "SQL"}, job.StructuredJD.RequiredSkills)
}

func TestJobService_IncompleteJob(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestJobService(repo, &countingExtractor{text: "JD text"}, `{"title": "Intern", "location": "Remote", "requiredSkills": ["Excel"]}`)
	doc := &models.Document{ID: uuid.New(), FilePath: "uploads/jd.pdf", MimeType: MediaTypePDF}

	_, err := svc.Create(context.Background(), CreateJobInput{JDDocument: doc})

	var incomplete *IncompleteJobError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{
		"Stipend/Salary Range",
		"Experience Level",
		"Preferred Skills",
		"Responsibilities",
		"Eligibility",
	}, incomplete.MissingFields)
	assert.Equal(t, "Intern", incomplete.Draft.Title)
	assert.Equal(t, "Remote", incomplete.Draft.StructuredJD.Location)
	assert.Equal(t, &doc.ID, incomplete.Draft.JDDocumentID)
	assert.Empty(t, repo.jobs)
}

func TestJobService_ExtractionFallback(t *testing.T) {
	doc := &models.Document{ID: uuid.New(), FilePath: "uploads/jd.doc", MimeType: MediaTypeDOC}

	t.Run("manual title and description", func(t *testing.T) {
		repo := newFakeJobRepo()
		svc := newTestJobService(repo, &countingExtractor{err: ErrExtractionFailure}, completeStructuredReply)

		job, err := svc.Create(context.Background(), CreateJobInput{
			Title:       "Backend Engineer",
			Description: "Build APIs",
			JDDocument:  doc,
			Override:    completeOverride(),
		})
		require.NoError(t, err)
		assert.Equal(t, "Backend Engineer", job.Title)
		assert.Equal(t, "Build APIs", job.Description)
		assert.Equal(t, "Remote", job.StructuredJD.Location)
	})

	t.Run("nothing to fall back on", func(t *testing.T) {
		svc := newTestJobService(newFakeJobRepo(), &countingExtractor{err: ErrExtractionFailure}, completeStructuredReply)

		_, err := svc.Create(context.Background(), CreateJobInput{Title: "Backend Engineer", JDDocument: doc})
		assert.ErrorIs(t, err, ErrExtractionFailure)
	})
}

func TestJobService_MissingDetails(t *testing.T) {
	svc := newTestJobService(newFakeJobRepo(), &countingExtractor{}, "{}")

	_, err := svc.Create(context.Background(), CreateJobInput{Title: "Only a title"})
	assert.ErrorIs(t, err, ErrMissingJobDetails)
}

func TestJobService_CodeExhausted(t *testing.T) {
	repo := &alwaysTakenJobRepo{fakeJobRepo: newFakeJobRepo()}
	svc := newTestJobService(repo.fakeJobRepo, &countingExtractor{}, "{}")
	svc.jobRepo = repo

	_, err := svc.Create(context.Background(), CreateJobInput{
		Title:       "Engineer",
		Description: "Build things",
		Override:    completeOverride(),
	})
	assert.ErrorIs(t, err, ErrJobCodeExhausted)
	assert.Equal(t, jobCodeAttempts, repo.checks)
}

type alwaysTakenJobRepo struct {
	*fakeJobRepo
	checks int
}

func (r *alwaysTakenJobRepo) CodeExists(string) (bool, error) {
	r.checks++
	return true, nil
}

func TestMissingJobFields(t *testing.T) {
	jd := *completeOverride()
	assert.Empty(t, MissingJobFields(jd))

	jd.RequiredSkills = []string{" ", ""}
	jd.Location = "  "
	assert.Equal(t, []string{"Location", "Required Skills"}, MissingJobFields(jd))
}

func TestRandomCode(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		code, err := randomCode(jobCodeLength)
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9A-Z]{5}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 40)
}

func TestJobService_SearchPreservesRelevanceOrder(t *testing.T) {
	repo := newFakeJobRepo()
	store := newMemoryVectorStore()
	search := NewJobSearchService(store, keywordEmbedder{}, nil)
	svc := NewJobService(repo, &countingExtractor{}, NewStructuringEngine(fixedReply("{}"), nil), search, nil)
	ctx := context.Background()

	weak, err := svc.Create(ctx, CreateJobInput{Title: "Python Analyst", Description: "python reporting", Override: completeOverride()})
	require.NoError(t, err)
	strong, err := svc.Create(ctx, CreateJobInput{Title: "Python Engineer (Python 3)", Description: "python python python", Override: completeOverride()})
	require.NoError(t, err)

	jobs, err := svc.Search(ctx, "python", 5)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, strong.ID, jobs[0].ID)
	assert.Equal(t, weak.ID, jobs[1].ID)

	indexed, err := svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, indexed)
}

func TestJobService_SearchDisabled(t *testing.T) {
	svc := NewJobService(newFakeJobRepo(), &countingExtractor{}, nil, nil, nil)

	_, err := svc.Search(context.Background(), "go", 5)
	assert.ErrorIs(t, err, ErrSearchUnavailable)

	_, err = svc.Reindex(context.Background())
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestJobService_CreateFromDraftDocument(t *testing.T) {
	repo := newFakeJobRepo()
	extractor := &countingExtractor{text: "JD text"}
	svc := newTestJobService(repo, extractor, completeStructuredReply)
	draftDoc := &models.Document{ID: uuid.New(), FilePath: "uploads/jd.pdf", MimeType: MediaTypePDF}

	job, err := svc.Create(context.Background(), CreateJobInput{
		Title:         "Intern",
		Description:   "Prepare weekly reports",
		Override:      completeOverride(),
		DraftDocument: draftDoc,
	})
	require.NoError(t, err)

	require.NotNil(t, job.JDDocumentID)
	assert.Equal(t, draftDoc.ID, *job.JDDocumentID)
	assert.Equal(t, "Remote", job.StructuredJD.Location)
	assert.Zero(t, extractor.calls.Load(), "a draft document is not structured again")
}

func TestJobService_Update(t *testing.T) {
	repo := newFakeJobRepo()
	store := newMemoryVectorStore()
	search := NewJobSearchService(store, keywordEmbedder{}, nil)
	svc := NewJobService(repo, &countingExtractor{}, NewStructuringEngine(fixedReply("{}"), nil), search, nil)
	ctx := context.Background()

	job, err := svc.Create(ctx, CreateJobInput{Title: "Analyst", Description: "Reporting", Override: completeOverride()})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, job.ID, UpdateJobInput{Status: models.JobStatusClosed})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, updated.Status)
	assert.Equal(t, "Analyst", updated.Title)
	require.Len(t, store.chunks[job.ID.String()], 1)
	assert.Contains(t, store.chunks[job.ID.String()][0].Text, "Analyst")

	updated, err = svc.Update(ctx, job.ID, UpdateJobInput{Title: " Senior Analyst "})
	require.NoError(t, err)
	assert.Equal(t, "Senior Analyst", updated.Title)
	assert.Equal(t, models.JobStatusClosed, updated.Status, "status is kept when not given")
	assert.Contains(t, store.chunks[job.ID.String()][0].Text, "Senior Analyst", "text changes are reindexed")

	stored, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Analyst", stored.Title)

	_, err = svc.Update(ctx, job.ID, UpdateJobInput{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidJobStatus)

	_, err = svc.Update(ctx, uuid.New(), UpdateJobInput{Title: "Ghost"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestJobService_Delete(t *testing.T) {
	repo := newFakeJobRepo()
	store := newMemoryVectorStore()
	search := NewJobSearchService(store, keywordEmbedder{}, nil)
	svc := NewJobService(repo, &countingExtractor{}, NewStructuringEngine(fixedReply("{}"), nil), search, nil)
	ctx := context.Background()

	job, err := svc.Create(ctx, CreateJobInput{Title: "Go Engineer", Description: "Remote Go work", Override: completeOverride()})
	require.NoError(t, err)
	require.NotEmpty(t, store.chunks[job.ID.String()])

	require.NoError(t, svc.Delete(ctx, job.ID))

	assert.Empty(t, store.chunks[job.ID.String()])
	_, err = repo.FindByID(job.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	matches, err := svc.Search(ctx, "go", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)

	assert.ErrorIs(t, svc.Delete(ctx, job.ID), repositories.ErrNotFound)
}

func TestJobService_DeleteWithoutSearch(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestJobService(repo, &countingExtractor{}, "{}")

	job, err := svc.Create(context.Background(), CreateJobInput{Title: "Analyst", Description: "Reporting", Override: completeOverride()})
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(context.Background(), job.ID))
}
