package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/NishantsCode/NextHire/internal/models"
)

// ErrInvalidOverride is returned when a manual structured JD does not match
// the expected shape.
var ErrInvalidOverride = errors.New("invalid structured job description")

const structuredJDSchema = `{
  "type": "object",
  "additionalProperties": false,
  "definitions": {
    "text": {"type": ["string", "null"]},
    "list": {"type": ["array", "null"], "items": {"type": "string"}}
  },
  "properties": {
    "title": {"$ref": "#/definitions/text"},
    "rolesAndResponsibilities": {"$ref": "#/definitions/list"},
    "eligibility": {"$ref": "#/definitions/list"},
    "requiredSkills": {"$ref": "#/definitions/list"},
    "preferredSkills": {"$ref": "#/definitions/list"},
    "experience": {"$ref": "#/definitions/text"},
    "education": {"$ref": "#/definitions/text"},
    "location": {"$ref": "#/definitions/text"},
    "employmentType": {"$ref": "#/definitions/text"},
    "salary": {"$ref": "#/definitions/text"},
    "benefits": {"$ref": "#/definitions/list"},
    "additionalInfo": {"$ref": "#/definitions/text"}
  }
}`

var structuredJDSchemaLoader = gojsonschema.NewStringLoader(structuredJDSchema)

// ParseStructuredJDOverride validates and decodes a manually supplied
// structured JD. List entries are trimmed and blanks dropped.
func ParseStructuredJDOverride(raw string) (*models.StructuredJD, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	result, err := gojsonschema.Validate(structuredJDSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOverride, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidOverride, strings.Join(details, "; "))
	}

	var jd models.StructuredJD
	if err := json.Unmarshal([]byte(raw), &jd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOverride, err)
	}

	for _, list := range []*[]string{
		&jd.RolesAndResponsibilities, &jd.Eligibility, &jd.RequiredSkills,
		&jd.PreferredSkills, &jd.Benefits,
	} {
		*list = coerceStringList(toAnySlice(*list))
	}
	jd.EnsureDefaults()

	return &jd, nil
}

func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
