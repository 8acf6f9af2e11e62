package services

import (
	"fmt"
	"strings"

	"github.com/NishantsCode/NextHire/internal/models"
)

// EmploymentTypes is the closed set accepted for employmentType.
var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Temporary"}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildStructuringPrompt creates the prompt that turns raw job description
// text into the structured job schema.
func (pb *PromptBuilder) BuildStructuringPrompt(jdText string) string {
	return fmt.Sprintf(`You are an expert HR document parser. Analyze the following job description and extract structured information accurately.

JOB DESCRIPTION TEXT:
%s

Extract and structure this job description into the following JSON format with these EXACT field names:

{
  "title": "string",
  "rolesAndResponsibilities": ["string"],
  "eligibility": ["string"],
  "requiredSkills": ["string"],
  "preferredSkills": ["string"],
  "experience": "string",
  "education": "string",
  "location": "string",
  "employmentType": "string",
  "salary": "string",
  "benefits": ["string"],
  "additionalInfo": "string"
}

EXTRACTION RULES:

1. "title": the job position name ONLY. Do not include job IDs, reference numbers or company names.
2. "location": work location, e.g. "Bangalore, India", "Remote", "Hybrid - Mumbai". List every location mentioned.
3. "employmentType": EXACTLY one of %s, or "" when not mentioned.
4. "experience": a SHORT summary of the experience requirement, e.g. "2-4 years", "5+ years", "Fresher".
5. "education": the minimum education requirement as a short phrase, or "".
6. "salary": compensation information, e.g. "$80,000-$100,000", "Competitive", or "".
7. "eligibility": ONLY formal qualifications as separate items: degrees, certifications and years of experience.
   Soft skills and personality traits ("Self-driven", "Critical thinker", "Problem solver", "Detail-oriented")
   are NOT eligibility criteria. Put them in "rolesAndResponsibilities" or ignore them.
8. "requiredSkills": MUST-HAVE technical and professional skills, one skill per item, no soft skills.
9. "preferredSkills": NICE-TO-HAVE skills, often marked "preferred", "nice to have", "plus" or "bonus".
10. "rolesAndResponsibilities": job duties as complete sentences describing what the person will DO.
    Desired work qualities may also go here.
11. "benefits": perks and extras such as insurance, leave, flexibility, learning budget, bonuses, stock options.
12. "additionalInfo": ONLY information that fits no other field (deadlines, start dates, special instructions).
    Never repeat job IDs or information already captured elsewhere.

IMPORTANT:
- Use "" for missing strings and [] for missing arrays.
- Do not invent information that is not in the text.
- Arrays must contain strings, not objects.
- Return ONLY valid JSON, no markdown formatting, no extra text.

Return the structured JSON now:`, jdText, quoteList(EmploymentTypes))
}

// BuildATSPrompt creates the prompt that scores a resume against a job.
func (pb *PromptBuilder) BuildATSPrompt(resumeText string, job JobContext) string {
	return fmt.Sprintf(`You are an expert ATS (Applicant Tracking System) analyzer. Analyze the following resume against the job description and provide a detailed assessment.

JOB DESCRIPTION:
%s

RESUME:
%s

INSTRUCTIONS:
1. Skill synonym matching. Treat these variations as the same skill:
%s
2. Experience level bands:
%s
3. Holistic evaluation: technical skills, years and level of experience, education and certifications,
   soft skills and cultural fit indicators, resume clarity, projects and achievements, domain knowledge.
4. Scoring criteria:
%s
5. Recommendation: use exactly one of %s.

Respond with this JSON object:
{
  "score": <number between 0-100>,
  "analysis": "<brief 2-3 sentence analysis of the match>",
  "matchedSkills": ["skill1", "skill2"],
  "missingSkills": ["skill1", "skill2"],
  "strengths": ["strength1", "strength2"],
  "recommendations": "<one recommendation from the list above>",
  "interviewFocus": ["topic1", "topic2"],
  "trainingNeeds": ["skill1", "skill2"]
}

Be objective and provide actionable insights. Return ONLY the JSON object, no additional text.`,
		pb.BuildJobSummary(job), resumeText,
		indentLines(skillSynonyms, "   - "),
		indentLines(experienceBands, "   - "),
		indentLines(rubricLines(), "   - "),
		quoteList(Recommendations),
	)
}

// JobContext is the job information a resume is scored against.
type JobContext struct {
	Title        string
	Description  string
	StructuredJD models.StructuredJD
}

// BuildJobSummary renders the title, description and every non-empty
// structured field.
func (pb *PromptBuilder) BuildJobSummary(job JobContext) string {
	jd := job.StructuredJD
	sections := []string{
		"JOB TITLE: " + job.Title,
		"DESCRIPTION:\n" + strings.TrimSpace(job.Description),
	}

	addList := func(label string, items []string, sep string) {
		if len(items) > 0 {
			sections = append(sections, label+":\n"+strings.Join(items, sep))
		}
	}
	addValue := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			sections = append(sections, label+": "+value)
		}
	}

	addList("REQUIRED SKILLS", jd.RequiredSkills, ", ")
	addList("PREFERRED SKILLS", jd.PreferredSkills, ", ")
	addValue("EXPERIENCE REQUIRED", jd.Experience)
	addValue("EDUCATION", jd.Education)
	addList("ELIGIBILITY", jd.Eligibility, "\n")
	addList("ROLES & RESPONSIBILITIES", jd.RolesAndResponsibilities, "\n")
	addValue("LOCATION", jd.Location)
	addValue("EMPLOYMENT TYPE", jd.EmploymentType)

	return strings.Join(sections, "\n\n")
}

// RubricWeight is one weighted scoring criterion.
type RubricWeight struct {
	Criterion string
	Percent   int
}

// ScoringRubric weights sum to 100.
var ScoringRubric = []RubricWeight{
	{Criterion: "Technical skills match", Percent: 40},
	{Criterion: "Experience level match", Percent: 25},
	{Criterion: "Education and qualifications", Percent: 15},
	{Criterion: "Soft skills and cultural fit indicators", Percent: 10},
	{Criterion: "Overall resume quality and presentation", Percent: 10},
}

var Recommendations = []string{
	"Strong candidate - Schedule interview immediately",
	"Good fit - Consider for interview",
	"Moderate match - Review carefully",
	"Not suitable for this role",
}

var skillSynonyms = []string{
	"React = ReactJS = React.js",
	"JavaScript = JS = ECMAScript = ES6",
	"Node.js = NodeJS = Node",
	"Python = Python3",
	"SQL = MySQL = PostgreSQL = relational databases",
	"Docker = Containerization",
	"Kubernetes = K8s = Container Orchestration",
	"CI/CD = Continuous Integration = Jenkins = GitHub Actions",
	"AWS = Amazon Web Services = EC2 = S3",
	"Git = Version Control = GitHub = GitLab",
}

var experienceBands = []string{
	`"Junior" = 0-2 years`,
	`"Mid-level" = 3-5 years`,
	`"Senior" = 5+ years`,
	`"Lead" = 7+ years`,
}

func rubricLines() []string {
	lines := make([]string, 0, len(ScoringRubric))
	for _, w := range ScoringRubric {
		lines = append(lines, fmt.Sprintf("%s (%d%%)", w.Criterion, w.Percent))
	}
	return lines
}

func indentLines(lines []string, prefix string) string {
	return prefix + strings.Join(lines, "\n"+prefix)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + item + `"`
	}
	return strings.Join(quoted, ", ")
}
