package services

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NishantsCode/NextHire/internal/models"
)

var searchVocabulary = []string{"go", "python", "design", "sales", "remote"}

// keywordEmbedder counts vocabulary words, giving tiny comparable vectors.
type keywordEmbedder struct{}

func (keywordEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(searchVocabulary))
	for i, word := range searchVocabulary {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec, nil
}

type memoryVectorStore struct {
	mu     sync.Mutex
	chunks map[string][]VectorChunk
}

func newMemoryVectorStore() *memoryVectorStore {
	return &memoryVectorStore{chunks: map[string][]VectorChunk{}}
}

func (m *memoryVectorStore) InitCollection(context.Context) error { return nil }

func (m *memoryVectorStore) UpsertChunks(_ context.Context, jobID string, chunks []VectorChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[jobID] = append(m.chunks[jobID], chunks...)
	return nil
}

func (m *memoryVectorStore) DeleteJob(_ context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chunks, jobID)
	return nil
}

func (m *memoryVectorStore) Search(_ context.Context, query []float32, limit int) ([]ChunkMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []ChunkMatch
	for jobID, chunks := range m.chunks {
		for _, chunk := range chunks {
			var score float32
			for i := range query {
				score += query[i] * chunk.Embedding[i]
			}
			if score > 0 {
				matches = append(matches, ChunkMatch{JobID: jobID, Score: score, Text: chunk.Text})
			}
		}
	}
	slices.SortFunc(matches, func(a, b ChunkMatch) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.JobID, b.JobID)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func TestJobSearchService_IndexAndSearch(t *testing.T) {
	store := newMemoryVectorStore()
	search := NewJobSearchService(store, keywordEmbedder{}, nil)
	ctx := context.Background()

	goJob := &models.Job{ID: uuid.New(), Title: "Go Engineer", Description: "Write Go services. Remote friendly."}
	salesJob := &models.Job{ID: uuid.New(), Title: "Account Executive", Description: "Own sales pipeline."}
	require.NoError(t, search.IndexJob(ctx, goJob))
	require.NoError(t, search.IndexJob(ctx, salesJob))

	matches, err := search.Search(ctx, "remote go", 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, goJob.ID, matches[0].JobID)
	assert.Contains(t, matches[0].Snippet, "Go Engineer")

	for _, m := range matches {
		assert.NotEqual(t, salesJob.ID, m.JobID)
	}
}

func TestJobSearchService_ReindexReplacesChunks(t *testing.T) {
	store := newMemoryVectorStore()
	search := NewJobSearchService(store, keywordEmbedder{}, nil)
	job := &models.Job{ID: uuid.New(), Title: "Designer", Description: "Product design."}

	require.NoError(t, search.IndexJob(context.Background(), job))
	require.NoError(t, search.IndexJob(context.Background(), job))

	assert.Len(t, store.chunks[job.ID.String()], 1)
	assert.Equal(t, chunkPointID(job.ID, 0), store.chunks[job.ID.String()][0].ID)
}

func TestJobSearchService_Disabled(t *testing.T) {
	search := NewJobSearchService(nil, nil, nil)
	assert.False(t, search.Enabled())

	_, err := search.Search(context.Background(), "go", 5)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
	assert.ErrorIs(t, search.IndexJob(context.Background(), &models.Job{}), ErrSearchUnavailable)

	var nilService *JobSearchService
	assert.False(t, nilService.Enabled())
}

func TestCollapseMatches(t *testing.T) {
	a, b := uuid.New().String(), uuid.New().String()
	chunks := []ChunkMatch{
		{JobID: a, Score: 0.9, Text: "a-best"},
		{JobID: a, Score: 0.8, Text: "a-second"},
		{JobID: "not-a-uuid", Score: 0.7},
		{JobID: b, Score: 0.6, Text: "b-best"},
	}

	matches := collapseMatches(chunks, 10)
	require.Len(t, matches, 2)
	assert.Equal(t, "a-best", matches[0].Snippet)
	assert.Equal(t, "b-best", matches[1].Snippet)

	assert.Len(t, collapseMatches(chunks, 1), 1)
}

func TestJobSearchText_PrefersStructuredJD(t *testing.T) {
	job := &models.Job{
		Title:        "Analyst",
		Description:  "raw description",
		StructuredJD: &models.StructuredJD{Location: "Delhi"},
	}
	text := jobSearchText(job)
	assert.Contains(t, text, "Location: Delhi")
	assert.NotContains(t, text, "raw description")
}
