package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentKind string

const (
	DocumentKindJobDescription DocumentKind = "job_description"
	DocumentKindResume         DocumentKind = "resume"
)

// Document is an uploaded file. It is immutable once stored.
type Document struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string       `gorm:"type:text" json:"filename"`
	OriginalFileName string       `gorm:"type:text" json:"original_filename"`
	Kind             DocumentKind `gorm:"type:text" json:"kind"`
	MimeType         string       `gorm:"type:text" json:"mime_type"`
	FilePath         string       `gorm:"type:text" json:"-"`
	OwnerID          *uuid.UUID   `gorm:"type:uuid" json:"owner_id,omitempty"`
	CreatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
