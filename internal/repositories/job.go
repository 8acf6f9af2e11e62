package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NishantsCode/NextHire/internal/models"
)

type JobFilter struct {
	Status    models.JobStatus
	CreatedBy *uuid.UUID
	Limit     int
	Offset    int
}

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uuid.UUID) (*models.Job, error)
	FindByIDs(ids []uuid.UUID) ([]models.Job, error)
	CodeExists(code string) (bool, error)
	List(filter JobFilter) ([]models.Job, int64, error)
	ListAll() ([]models.Job, error)
	Update(job *models.Job) error
	Delete(id uuid.UUID) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Preload("JDDocument").Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) FindByIDs(ids []uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) CodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Job{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check job code: %w", err)
	}
	return count > 0, nil
}

func (r *jobRepository) List(filter JobFilter) ([]models.Job, int64, error) {
	query := r.db.Model(&models.Job{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var jobs []models.Job
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, total, nil
}

func (r *jobRepository) ListAll() ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.Order("created_at ASC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// Update writes the editable fields of job.
func (r *jobRepository) Update(job *models.Job) error {
	job.UpdatedAt = time.Now()
	result := r.db.Model(&models.Job{ID: job.ID}).
		Select("title", "description", "status", "updated_at").
		Updates(job)
	if result.Error != nil {
		return fmt.Errorf("failed to update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job %s: %w", job.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the job together with its applications.
func (r *jobRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return fmt.Errorf("failed to delete applications of job: %w", err)
		}
		result := tx.Delete(&models.Job{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete job: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil
	})
}
