package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}

// StructuredJD is the canonical structured job description. List fields are
// never nil once normalized.
type StructuredJD struct {
	Title                    string   `json:"title"`
	RolesAndResponsibilities []string `json:"rolesAndResponsibilities"`
	Eligibility              []string `json:"eligibility"`
	RequiredSkills           []string `json:"requiredSkills"`
	PreferredSkills          []string `json:"preferredSkills"`
	Experience               string   `json:"experience"`
	Education                string   `json:"education"`
	Location                 string   `json:"location"`
	EmploymentType           string   `json:"employmentType"`
	Salary                   string   `json:"salary"`
	Benefits                 []string `json:"benefits"`
	AdditionalInfo           string   `json:"additionalInfo"`
}

// EnsureDefaults replaces nil lists with empty ones.
func (s *StructuredJD) EnsureDefaults() {
	for _, list := range []*[]string{
		&s.RolesAndResponsibilities,
		&s.Eligibility,
		&s.RequiredSkills,
		&s.PreferredSkills,
		&s.Benefits,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
}

// Merge returns a copy of s where every non-empty field of override wins.
func (s StructuredJD) Merge(override StructuredJD) StructuredJD {
	merged := s
	mergeString(&merged.Title, override.Title)
	mergeString(&merged.Experience, override.Experience)
	mergeString(&merged.Education, override.Education)
	mergeString(&merged.Location, override.Location)
	mergeString(&merged.EmploymentType, override.EmploymentType)
	mergeString(&merged.Salary, override.Salary)
	mergeString(&merged.AdditionalInfo, override.AdditionalInfo)
	mergeList(&merged.RolesAndResponsibilities, override.RolesAndResponsibilities)
	mergeList(&merged.Eligibility, override.Eligibility)
	mergeList(&merged.RequiredSkills, override.RequiredSkills)
	mergeList(&merged.PreferredSkills, override.PreferredSkills)
	mergeList(&merged.Benefits, override.Benefits)
	merged.EnsureDefaults()
	return merged
}

func mergeString(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = value
	}
}

func mergeList(dst *[]string, value []string) {
	if len(value) > 0 {
		*dst = append([]string(nil), value...)
	}
}

type Job struct {
	ID           uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Code         string        `gorm:"type:text;uniqueIndex" json:"job_code"`
	Title        string        `gorm:"type:text;not null" json:"title"`
	Description  string        `gorm:"type:text;not null" json:"description"`
	StructuredJD *StructuredJD `gorm:"type:jsonb;serializer:json" json:"structured_jd,omitempty"`
	JDDocumentID *uuid.UUID    `gorm:"type:uuid" json:"jd_document_id,omitempty"`
	CreatedBy    *uuid.UUID    `gorm:"type:uuid" json:"created_by,omitempty"`
	Status       JobStatus     `gorm:"not null;default:'active'" json:"status"`
	CreatedAt    time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	JDDocument   *Document     `gorm:"foreignKey:JDDocumentID" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}
