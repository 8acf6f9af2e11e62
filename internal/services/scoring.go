package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/models"
)

const (
	maxSkillEntries = 20
	defaultAnalysis = "Analysis completed."
)

// ResumeSource is the stored resume a score is computed for.
type ResumeSource struct {
	ID        string
	FilePath  string
	MediaType string
}

type ScoringEngine struct {
	completion    CompletionService
	extractor     TextExtractor
	promptBuilder *PromptBuilder
	logger        *zap.Logger
	now           func() time.Time
}

// NewScoringEngine wires the engine. extractor is usually a CachedExtractor.
func NewScoringEngine(completion CompletionService, extractor TextExtractor, logger *zap.Logger) *ScoringEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringEngine{
		completion:    completion,
		extractor:     extractor,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock replaces the timestamp source used for CalculatedAt.
func (s *ScoringEngine) WithClock(now func() time.Time) *ScoringEngine {
	s.now = now
	return s
}

// Score extracts the resume text and scores it against job. Extraction
// errors are returned unchanged.
func (s *ScoringEngine) Score(ctx context.Context, resume ResumeSource, job JobContext) (*models.ATSScore, error) {
	text, err := s.extractor.Extract(ctx, resume.FilePath, resume.MediaType)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("resume text resolved",
		zap.String("resume_id", resume.ID),
		zap.Int("length", len(text)),
	)

	return s.ScoreText(ctx, text, job)
}

// ScoreText scores already extracted resume text. It never persists.
func (s *ScoringEngine) ScoreText(ctx context.Context, resumeText string, job JobContext) (*models.ATSScore, error) {
	if s.completion == nil || !s.completion.IsConfigured() {
		return nil, ErrAIUnavailable
	}

	prompt := s.promptBuilder.BuildATSPrompt(resumeText, job)

	started := time.Now()
	reply, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate ATS score: %w", err)
	}

	data, err := decodeAIObject(reply)
	if err != nil {
		s.logger.Warn("scoring reply carried no JSON object", zap.String("job_title", job.Title))
		return nil, err
	}

	record := NormalizeATSScore(data, s.now())

	s.logger.Info("ATS score calculated",
		zap.String("job_title", job.Title),
		zap.Int("score", record.Score),
		zap.Int("matched_skills", len(record.MatchedSkills)),
		zap.Int("missing_skills", len(record.MissingSkills)),
		zap.Duration("latency", time.Since(started)),
	)

	return record, nil
}

// NormalizeATSScore maps a decoded reply onto the canonical score record.
func NormalizeATSScore(data map[string]any, calculatedAt time.Time) *models.ATSScore {
	analysis := coerceString(data["analysis"])
	if analysis == "" {
		analysis = defaultAnalysis
	}

	return &models.ATSScore{
		Score:           NormalizeScore(coerceFloat(data["score"])),
		Analysis:        analysis,
		MatchedSkills:   truncateList(coerceStringList(data["matchedSkills"]), maxSkillEntries),
		MissingSkills:   truncateList(coerceStringList(data["missingSkills"]), maxSkillEntries),
		Strengths:       coerceStringList(data["strengths"]),
		Recommendations: coerceString(data["recommendations"]),
		InterviewFocus:  coerceStringList(data["interviewFocus"]),
		TrainingNeeds:   coerceStringList(data["trainingNeeds"]),
		CalculatedAt:    calculatedAt,
	}
}

// NormalizeScore clamps raw to [0,100] and rounds half away from zero.
// NaN becomes 0.
func NormalizeScore(raw float64) int {
	if math.IsNaN(raw) {
		return 0
	}
	return int(math.Round(math.Min(math.Max(raw, 0), 100)))
}
