package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NishantsCode/NextHire/internal/models"
)

// DefaultBatchSize caps concurrent completion calls in a bulk run.
const DefaultBatchSize = 5

// ResumeScorer is the part of ScoringEngine the coordinator needs.
type ResumeScorer interface {
	Score(ctx context.Context, resume ResumeSource, job JobContext) (*models.ATSScore, error)
}

// BulkCandidate is one resume to score in a bulk run.
type BulkCandidate struct {
	ID     string
	Resume ResumeSource
}

// BulkScoringResult is the outcome for one candidate.
type BulkScoringResult struct {
	CandidateID string           `json:"applicationId"`
	ATSScore    *models.ATSScore `json:"atsScore,omitempty"`
	Error       string           `json:"error,omitempty"`
	Success     bool             `json:"success"`
	Err         error            `json:"-"`
}

type BulkScoringCoordinator struct {
	scorer    ResumeScorer
	batchSize int
	logger    *zap.Logger
}

func NewBulkScoringCoordinator(scorer ResumeScorer, batchSize int, logger *zap.Logger) *BulkScoringCoordinator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkScoringCoordinator{scorer: scorer, batchSize: batchSize, logger: logger}
}

// ScoreAll scores every candidate against job and returns one result per
// candidate in input order. Candidates run concurrently within a batch and
// batches run one after another. Failures are recorded per candidate.
func (b *BulkScoringCoordinator) ScoreAll(ctx context.Context, job JobContext, candidates []BulkCandidate) []BulkScoringResult {
	results := make([]BulkScoringResult, len(candidates))
	totalBatches := (len(candidates) + b.batchSize - 1) / b.batchSize

	b.logger.Info("starting bulk ATS scoring",
		zap.String("job_title", job.Title),
		zap.Int("candidates", len(candidates)),
		zap.Int("batches", totalBatches),
	)

	for start := 0; start < len(candidates); start += b.batchSize {
		end := min(start+b.batchSize, len(candidates))
		batchNo := start/b.batchSize + 1

		if err := ctx.Err(); err != nil {
			for i := start; i < len(candidates); i++ {
				results[i] = failedResult(candidates[i].ID, err)
			}
			b.logger.Warn("bulk scoring cancelled", zap.Int("batch", batchNo), zap.Error(err))
			break
		}

		// goroutines never return an error, the group only bounds and joins
		var g errgroup.Group
		g.SetLimit(b.batchSize)
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = b.scoreOne(ctx, job, candidates[i])
				return nil
			})
		}
		_ = g.Wait()

		b.logger.Info("bulk scoring batch completed",
			zap.Int("batch", batchNo),
			zap.Int("of", totalBatches),
		)
	}

	return results
}

func (b *BulkScoringCoordinator) scoreOne(ctx context.Context, job JobContext, candidate BulkCandidate) (result BulkScoringResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = failedResult(candidate.ID, errors.New("scoring panicked"))
			b.logger.Error("candidate scoring panicked", zap.String("candidate_id", candidate.ID), zap.Any("panic", rec))
		}
	}()

	record, err := b.scorer.Score(ctx, candidate.Resume, job)
	if err != nil {
		b.logger.Warn("candidate scoring failed", zap.String("candidate_id", candidate.ID), zap.Error(err))
		return failedResult(candidate.ID, err)
	}

	return BulkScoringResult{CandidateID: candidate.ID, ATSScore: record, Success: true}
}

func failedResult(id string, err error) BulkScoringResult {
	return BulkScoringResult{CandidateID: id, Error: err.Error(), Err: err}
}

// CountSuccesses returns how many results succeeded and failed.
func CountSuccesses(results []BulkScoringResult) (succeeded, failed int) {
	for _, r := range results {
		if r.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
