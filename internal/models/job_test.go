package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredJD_EnsureDefaults(t *testing.T) {
	var jd StructuredJD
	jd.EnsureDefaults()

	data, err := json.Marshal(jd)
	require.NoError(t, err)

	for _, key := range []string{"rolesAndResponsibilities", "eligibility", "requiredSkills", "preferredSkills", "benefits"} {
		assert.Contains(t, string(data), `"`+key+`":[]`)
	}
}

func TestStructuredJD_Merge(t *testing.T) {
	base := StructuredJD{
		Title:          "Engineer",
		Location:       "Pune",
		RequiredSkills: []string{"Java"},
		Benefits:       []string{"Insurance"},
	}
	override := StructuredJD{
		Location:       "Remote",
		Salary:         "  ",
		RequiredSkills: []string{"Go", "SQL"},
	}

	merged := base.Merge(override)

	assert.Equal(t, "Engineer", merged.Title)
	assert.Equal(t, "Remote", merged.Location)
	assert.Equal(t, "", merged.Salary)
	assert.Equal(t, []string{"Go", "SQL"}, merged.RequiredSkills)
	assert.Equal(t, []string{"Insurance"}, merged.Benefits)
	assert.NotNil(t, merged.Eligibility)

	// the override slice is copied, not aliased
	override.RequiredSkills[0] = "Rust"
	assert.Equal(t, "Go", merged.RequiredSkills[0])
	assert.Equal(t, "Pune", base.Location)
}

func TestApplicationStatus_Valid(t *testing.T) {
	for _, s := range []ApplicationStatus{ApplicationPending, ApplicationReviewed, ApplicationShortlisted, ApplicationRejected} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ApplicationStatus("hired").Valid())
	assert.False(t, ApplicationStatus("").Valid())
}

func TestApplication_Scored(t *testing.T) {
	app := Application{}
	assert.False(t, app.Scored())

	app.ATSScore = &ATSScore{Score: 0}
	assert.True(t, app.Scored())
}

func TestNewDocumentResponse(t *testing.T) {
	assert.Nil(t, NewDocumentResponse(nil))

	resp := NewDocumentResponse(&Document{Filename: "a.pdf", OriginalFileName: "CV.pdf", Kind: DocumentKindResume, MimeType: "application/pdf"})
	assert.Equal(t, "CV.pdf", resp.OriginalName)
	assert.Equal(t, DocumentKindResume, resp.Kind)
}
