package models

type DocumentResponse struct {
	ID           string       `json:"id"`
	Filename     string       `json:"filename"`
	OriginalName string       `json:"original_name"`
	Kind         DocumentKind `json:"kind"`
	MimeType     string       `json:"mime_type"`
}

func NewDocumentResponse(doc *Document) *DocumentResponse {
	if doc == nil {
		return nil
	}
	return &DocumentResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		Kind:         doc.Kind,
		MimeType:     doc.MimeType,
	}
}

// CreateJobRequest is the multipart form of POST /jobs. StructuredJD is a
// JSON encoded manual override. JDDocumentID resubmits the JD uploaded by an
// earlier incomplete attempt instead of a new file.
type CreateJobRequest struct {
	Title        string `form:"title" validate:"omitempty,max=200"`
	Description  string `form:"description" validate:"omitempty,max=20000"`
	StructuredJD string `form:"structuredJD"`
	JDDocumentID string `form:"jdDocumentId" validate:"omitempty,uuid"`
}

// UpdateJobRequest changes the given fields; empty ones are left alone.
type UpdateJobRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=20000"`
	Status      string `json:"status" validate:"omitempty,oneof=active closed draft"`
}

type ListJobsQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=active closed draft"`
	Mine   bool   `query:"mine"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

type SearchJobsQuery struct {
	Query string `query:"q" validate:"required,min=2"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

type ApplyRequest struct {
	FullName          string `form:"fullname" validate:"required,max=200"`
	Email             string `form:"email" validate:"required,email"`
	Phone             string `form:"phone" validate:"omitempty,max=40"`
	YearsOfExperience string `form:"yearsOfExperience" validate:"required,max=40"`
	CoverLetter       string `form:"coverLetter" validate:"omitempty,max=10000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed shortlisted rejected"`
}

type BulkStatusRequest struct {
	ApplicationIDs []string `json:"applicationIds" validate:"required,min=1,dive,uuid"`
	Status         string   `json:"status" validate:"required,oneof=pending reviewed shortlisted rejected"`
}

type JobListResponse struct {
	Jobs   []Job `json:"jobs"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type ApplicationListResponse struct {
	Job          *Job          `json:"job"`
	Applications []Application `json:"applications"`
}

// UserApplication is one of an applicant's own applications with the job it
// was made for. Job is nil when the job has since been removed.
type UserApplication struct {
	Application
	Job *Job `json:"job"`
}
