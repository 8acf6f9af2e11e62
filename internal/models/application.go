package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewed, ApplicationShortlisted, ApplicationRejected:
		return true
	}
	return false
}

// ATSScore is replaced as a whole on every scoring run.
type ATSScore struct {
	Score           int       `json:"score"`
	Analysis        string    `json:"analysis"`
	MatchedSkills   []string  `json:"matchedSkills"`
	MissingSkills   []string  `json:"missingSkills"`
	Strengths       []string  `json:"strengths"`
	Recommendations string    `json:"recommendations"`
	InterviewFocus  []string  `json:"interviewFocus"`
	TrainingNeeds   []string  `json:"trainingNeeds"`
	CalculatedAt    time.Time `json:"calculatedAt"`
}

type Application struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID             uuid.UUID         `gorm:"type:uuid;not null;index" json:"job_id"`
	UserID            *uuid.UUID        `gorm:"type:uuid" json:"user_id,omitempty"`
	FullName          string            `gorm:"type:text;not null" json:"fullname"`
	Email             string            `gorm:"type:text;not null" json:"email"`
	Phone             string            `gorm:"type:text" json:"phone,omitempty"`
	YearsOfExperience string            `gorm:"type:text" json:"years_of_experience"`
	ResumeDocumentID  uuid.UUID         `gorm:"type:uuid;not null" json:"resume_document_id"`
	CoverLetter       string            `gorm:"type:text" json:"cover_letter,omitempty"`
	ATSScore          *ATSScore         `gorm:"type:jsonb;serializer:json" json:"ats_score,omitempty"`
	Status            ApplicationStatus `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	ResumeDocument Document `gorm:"foreignKey:ResumeDocumentID" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}

// Scored reports whether the application carries an ATS score.
func (a *Application) Scored() bool {
	return a.ATSScore != nil
}
