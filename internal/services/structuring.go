package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/models"
)

const defaultJobTitle = "Job Position"

// StructuringResult is a normalized job description plus its display text.
type StructuringResult struct {
	StructuredJD models.StructuredJD `json:"structuredJD"`
	// Description is derived from StructuredJD for display and search.
	Description string `json:"description"`
}

type StructuringEngine struct {
	completion    CompletionService
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewStructuringEngine(completion CompletionService, logger *zap.Logger) *StructuringEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructuringEngine{
		completion:    completion,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// Structure converts raw job description text into the canonical schema.
func (s *StructuringEngine) Structure(ctx context.Context, jdText string) (*StructuringResult, error) {
	if s.completion == nil || !s.completion.IsConfigured() {
		return nil, ErrAIUnavailable
	}

	prompt := s.promptBuilder.BuildStructuringPrompt(jdText)
	s.logger.Debug("structuring job description", zap.Int("text_length", len(jdText)))

	reply, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to structure job description: %w", err)
	}

	data, err := decodeAIObject(reply)
	if err != nil {
		s.logger.Warn("structuring reply carried no JSON object", zap.Int("reply_length", len(reply)))
		return nil, err
	}

	jd := NormalizeStructuredJD(data)

	return &StructuringResult{
		StructuredJD: jd,
		Description:  FormatStructuredJD(jd),
	}, nil
}

// NormalizeStructuredJD maps a decoded reply onto the canonical schema.
// Missing fields get their zero value; lists are never nil.
func NormalizeStructuredJD(data map[string]any) models.StructuredJD {
	jd := models.StructuredJD{
		Title:                    coerceString(data["title"]),
		RolesAndResponsibilities: coerceStringList(data["rolesAndResponsibilities"]),
		Eligibility:              coerceStringList(data["eligibility"]),
		RequiredSkills:           coerceStringList(data["requiredSkills"]),
		PreferredSkills:          coerceStringList(data["preferredSkills"]),
		Experience:               coerceString(data["experience"]),
		Education:                coerceString(data["education"]),
		Location:                 coerceString(data["location"]),
		EmploymentType:           NormalizeEmploymentType(coerceString(data["employmentType"])),
		Salary:                   coerceString(data["salary"]),
		Benefits:                 coerceStringList(data["benefits"]),
		AdditionalInfo:           coerceString(data["additionalInfo"]),
	}
	if jd.Title == "" {
		jd.Title = defaultJobTitle
	}
	return jd
}

// NormalizeEmploymentType maps value onto EmploymentTypes, ignoring case,
// spaces and hyphens. Unknown values become "".
func NormalizeEmploymentType(value string) string {
	key := employmentKey(value)
	if key == "" {
		return ""
	}
	for _, t := range EmploymentTypes {
		if employmentKey(t) == key {
			return t
		}
	}
	return ""
}

func employmentKey(s string) string {
	return strings.NewReplacer("-", "", " ", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// FormatStructuredJD renders the non-empty fields in a fixed section order:
// overview, eligibility, responsibilities, required skills, preferred skills,
// benefits, additional information.
func FormatStructuredJD(jd models.StructuredJD) string {
	var sb strings.Builder

	overview := []struct{ label, value string }{
		{"Experience Required", jd.Experience},
		{"Education", jd.Education},
		{"Location", jd.Location},
		{"Employment Type", jd.EmploymentType},
		{"Salary", jd.Salary},
	}
	for _, line := range overview {
		if line.value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", line.label, line.value)
		}
	}
	sb.WriteString("\n")

	numbered := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(title + ":\n")
		for i, item := range items {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
		}
		sb.WriteString("\n")
	}
	bulleted := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(title + ":\n")
		sb.WriteString("• " + strings.Join(items, "\n• ") + "\n\n")
	}

	numbered("Eligibility Criteria", jd.Eligibility)
	numbered("Roles and Responsibilities", jd.RolesAndResponsibilities)
	bulleted("Required Skills", jd.RequiredSkills)
	bulleted("Preferred Skills", jd.PreferredSkills)
	bulleted("Benefits", jd.Benefits)

	if jd.AdditionalInfo != "" {
		sb.WriteString("Additional Information:\n")
		sb.WriteString(jd.AdditionalInfo + "\n")
	}

	return strings.TrimSpace(sb.String())
}
