package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToolkit_ReadsEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "gemini-from-env")
	t.Setenv("AI_REQUEST_TIMEOUT", "45s")
	t.Setenv("AI_TEMPERATURE", "0.1")
	t.Setenv("EXTRACTION_CACHE_BACKEND", "memory")
	t.Setenv("EXTRACTION_CACHE_TTL", "5m")
	t.Setenv("BULK_BATCH_SIZE", "7")

	tk, err := newToolkit(context.Background())
	require.NoError(t, err)
	defer tk.Close()

	assert.Equal(t, "gemini-from-env", tk.cfg.Gemini.Model)
	assert.Equal(t, 45*time.Second, tk.cfg.Gemini.RequestTimeout)
	assert.InDelta(t, 0.1, tk.cfg.Gemini.Temperature, 1e-6)
	assert.Equal(t, 5*time.Minute, tk.cfg.Extraction.CacheTTL)
	assert.Equal(t, 7, tk.batchSize())
	assert.False(t, tk.gemini.IsConfigured())
}

func TestNewToolkit_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "gemini-from-env")
	t.Setenv("BULK_BATCH_SIZE", "7")

	model, scoreBatch = "gemini-from-flag", 2
	t.Cleanup(func() { model, scoreBatch = "", 0 })

	tk, err := newToolkit(context.Background())
	require.NoError(t, err)
	defer tk.Close()

	assert.Equal(t, "gemini-from-flag", tk.cfg.Gemini.Model)
	assert.Equal(t, 2, tk.batchSize())
}

func TestNewToolkit_UnknownCacheBackend(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EXTRACTION_CACHE_BACKEND", "memcached")

	_, err := newToolkit(context.Background())
	assert.ErrorContains(t, err, "failed to open extraction cache")
}
