package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NishantsCode/NextHire/internal/models"
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id uuid.UUID) (*models.Application, error)
	ExistsForJob(jobID uuid.UUID, email string) (bool, error)
	ListByJob(jobID uuid.UUID) ([]models.Application, error)
	ListByUser(userID uuid.UUID) ([]models.Application, error)
	UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error
	BulkUpdateStatus(ids []uuid.UUID, status models.ApplicationStatus) (int64, error)
	UpdateATSScore(id uuid.UUID, score *models.ATSScore) error
	FindUnscored(since time.Time, exclude []uuid.UUID, limit int) ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *models.Application) error {
	if err := r.db.Omit("ResumeDocument").Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.Preload("ResumeDocument").Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) ExistsForJob(jobID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("job_id = ? AND LOWER(email) = LOWER(?)", jobID, email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing application: %w", err)
	}
	return count > 0, nil
}

func (r *applicationRepository) ListByJob(jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Preload("ResumeDocument").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListByUser returns an applicant's applications, newest first.
func (r *applicationRepository) ListByUser(userID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("application %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *applicationRepository) BulkUpdateStatus(ids []uuid.UUID, status models.ApplicationStatus) (int64, error) {
	result := r.db.Model(&models.Application{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to update statuses: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// UpdateATSScore replaces the stored score record. Struct updates go through
// the json serializer, which map updates would skip.
func (r *applicationRepository) UpdateATSScore(id uuid.UUID, score *models.ATSScore) error {
	result := r.db.Model(&models.Application{ID: id}).
		Select("ats_score", "updated_at").
		Updates(&models.Application{ATSScore: score, UpdatedAt: time.Now()})

	if result.Error != nil {
		return fmt.Errorf("failed to update ats score: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("application %s: %w", id, ErrNotFound)
	}

	return nil
}

// FindUnscored returns the oldest unscored applications created at or after since,
// skipping the ids in exclude.
func (r *applicationRepository) FindUnscored(since time.Time, exclude []uuid.UUID, limit int) ([]models.Application, error) {
	var apps []models.Application
	query := r.db.Where("ats_score IS NULL AND created_at >= ?", since)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	err := query.
		Order("created_at ASC").
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find unscored applications: %w", err)
	}
	return apps, nil
}
