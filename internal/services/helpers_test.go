package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/NishantsCode/NextHire/internal/models"
	"github.com/NishantsCode/NextHire/internal/repositories"
)

// stubCompletion answers every prompt with reply.
type stubCompletion struct {
	configured bool
	reply      func(prompt string) (string, error)
	calls      atomic.Int32
}

func newStubCompletion(reply func(prompt string) (string, error)) *stubCompletion {
	return &stubCompletion{configured: true, reply: reply}
}

func fixedReply(text string) *stubCompletion {
	return newStubCompletion(func(string) (string, error) { return text, nil })
}

func (s *stubCompletion) IsConfigured() bool { return s.configured }

func (s *stubCompletion) Complete(_ context.Context, prompt string) (string, error) {
	s.calls.Add(1)
	return s.reply(prompt)
}

// countingExtractor returns text for every path and counts calls.
type countingExtractor struct {
	text  string
	err   error
	calls atomic.Int32
}

func (c *countingExtractor) Extract(_ context.Context, filePath, _ string) (string, error) {
	c.calls.Add(1)
	if c.err != nil {
		return "", c.err
	}
	if c.text != "" {
		return c.text, nil
	}
	return "resume of " + filePath, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeJobRepo struct {
	mu         sync.Mutex
	jobs       map[uuid.UUID]models.Job
	takenCodes map[string]bool
	createErr  error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]models.Job{}, takenCodes: map[string]bool{}}
}

func (r *fakeJobRepo) Create(job *models.Job) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.CreatedAt = time.Now()
	r.jobs[job.ID] = *job
	r.takenCodes[job.Code] = true
	return nil
}

func (r *fakeJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, repositories.ErrNotFound)
	}
	return &job, nil
}

func (r *fakeJobRepo) FindByIDs(ids []uuid.UUID) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, id := range ids {
		if job, ok := r.jobs[id]; ok {
			out = append(out, job)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) CodeExists(code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.takenCodes[code], nil
}

func (r *fakeJobRepo) List(filter repositories.JobFilter) ([]models.Job, int64, error) {
	all, _ := r.ListAll()
	var out []models.Job
	for _, job := range all {
		if filter.Status == "" || job.Status == filter.Status {
			out = append(out, job)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeJobRepo) ListAll() ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeJobRepo) Update(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return fmt.Errorf("job %s: %w", job.ID, repositories.ErrNotFound)
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return fmt.Errorf("job %s: %w", id, repositories.ErrNotFound)
	}
	delete(r.jobs, id)
	return nil
}

type fakeAppRepo struct {
	mu        sync.Mutex
	apps      map[uuid.UUID]models.Application
	updateErr error
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: map[uuid.UUID]models.Application{}}
}

func (r *fakeAppRepo) Create(app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	r.apps[app.ID] = *app
	return nil
}

func (r *fakeAppRepo) FindByID(id uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, repositories.ErrNotFound)
	}
	return &app, nil
}

func (r *fakeAppRepo) ExistsForJob(jobID uuid.UUID, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.JobID == jobID && strings.EqualFold(app.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppRepo) ListByJob(jobID uuid.UUID) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, app := range r.apps {
		if app.JobID == jobID {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAppRepo) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return fmt.Errorf("application %s: %w", id, repositories.ErrNotFound)
	}
	app.Status = status
	r.apps[id] = app
	return nil
}

func (r *fakeAppRepo) BulkUpdateStatus(ids []uuid.UUID, status models.ApplicationStatus) (int64, error) {
	var updated int64
	for _, id := range ids {
		if err := r.UpdateStatus(id, status); err == nil {
			updated++
		}
	}
	return updated, nil
}

func (r *fakeAppRepo) UpdateATSScore(id uuid.UUID, score *models.ATSScore) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return fmt.Errorf("application %s: %w", id, repositories.ErrNotFound)
	}
	app.ATSScore = score
	r.apps[id] = app
	return nil
}

func (r *fakeAppRepo) ListByUser(userID uuid.UUID) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, app := range r.apps {
		if app.UserID != nil && *app.UserID == userID {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAppRepo) FindUnscored(since time.Time, exclude []uuid.UUID, limit int) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	skip := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var out []models.Application
	for _, app := range r.apps {
		if app.ATSScore == nil && !app.CreatedAt.Before(since) && !skip[app.ID] {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var errBoom = errors.New("boom")

const validScoreReply = `{"score": 72, "analysis": "Solid match.", "matchedSkills": ["Go"], "missingSkills": ["Kafka"],
"strengths": ["APIs"], "recommendations": "Interview", "interviewFocus": ["Concurrency"], "trainingNeeds": []}`
