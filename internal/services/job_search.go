package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/logger"
	"github.com/NishantsCode/NextHire/internal/models"
)

// ErrSearchUnavailable is returned when no vector store is wired.
var ErrSearchUnavailable = errors.New("job search is not configured")

const (
	searchChunkSize    = 800
	searchChunkOverlap = 100
)

// JobMatch is one job returned by a search, with its best chunk score.
type JobMatch struct {
	JobID   uuid.UUID `json:"jobId"`
	Score   float32   `json:"score"`
	Snippet string    `json:"snippet"`
}

type JobSearchService struct {
	store    VectorStore
	embedder Embedder
	chunker  TextChunker
	logger   *zap.Logger
}

// NewJobSearchService returns a service whose calls fail with
// ErrSearchUnavailable when store or embedder is nil.
func NewJobSearchService(store VectorStore, embedder Embedder, logger *zap.Logger) *JobSearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobSearchService{
		store:    store,
		embedder: embedder,
		chunker:  NewTextChunker(),
		logger:   logger,
	}
}

func (s *JobSearchService) Enabled() bool {
	return s != nil && s.store != nil && s.embedder != nil
}

// IndexJob replaces every indexed chunk of the job.
func (s *JobSearchService) IndexJob(ctx context.Context, job *models.Job) error {
	if !s.Enabled() {
		return ErrSearchUnavailable
	}

	text := jobSearchText(job)
	chunks := s.chunker.ChunkText(text, searchChunkSize, searchChunkOverlap)

	vectors := make([]VectorChunk, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := s.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of job %s: %w", i, job.ID, err)
		}
		vectors = append(vectors, VectorChunk{
			ID:        chunkPointID(job.ID, i),
			Text:      chunk,
			Embedding: embedding,
		})
	}

	if err := s.store.DeleteJob(ctx, job.ID.String()); err != nil {
		return err
	}
	if err := s.store.UpsertChunks(ctx, job.ID.String(), vectors); err != nil {
		return err
	}

	s.logger.Info("job indexed", zap.String(logger.FieldJobID, job.ID.String()), zap.Int("chunks", len(vectors)))
	return nil
}

// RemoveJob drops every indexed chunk of the job.
func (s *JobSearchService) RemoveJob(ctx context.Context, jobID uuid.UUID) error {
	if !s.Enabled() {
		return ErrSearchUnavailable
	}
	if err := s.store.DeleteJob(ctx, jobID.String()); err != nil {
		return err
	}
	s.logger.Info("job removed from search index", zap.String(logger.FieldJobID, jobID.String()))
	return nil
}

// Search returns jobs ordered by their best matching chunk.
func (s *JobSearchService) Search(ctx context.Context, query string, limit int) ([]JobMatch, error) {
	if !s.Enabled() {
		return nil, ErrSearchUnavailable
	}
	if limit <= 0 {
		limit = 10
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// several chunks can belong to one job
	chunks, err := s.store.Search(ctx, embedding, limit*3)
	if err != nil {
		return nil, err
	}

	return collapseMatches(chunks, limit), nil
}

// collapseMatches keeps the first (best) chunk per job, preserving order.
func collapseMatches(chunks []ChunkMatch, limit int) []JobMatch {
	seen := make(map[string]bool, len(chunks))
	matches := make([]JobMatch, 0, limit)

	for _, chunk := range chunks {
		if seen[chunk.JobID] {
			continue
		}
		id, err := uuid.Parse(chunk.JobID)
		if err != nil {
			continue
		}
		seen[chunk.JobID] = true
		matches = append(matches, JobMatch{JobID: id, Score: chunk.Score, Snippet: chunk.Text})
		if len(matches) == limit {
			break
		}
	}

	return matches
}

func jobSearchText(job *models.Job) string {
	parts := []string{job.Title}
	if job.StructuredJD != nil {
		parts = append(parts, FormatStructuredJD(*job.StructuredJD))
	} else if job.Description != "" {
		parts = append(parts, job.Description)
	}
	return strings.Join(parts, "\n\n")
}

func chunkPointID(jobID uuid.UUID, index int) string {
	return uuid.NewSHA1(jobID, []byte(strconv.Itoa(index))).String()
}
