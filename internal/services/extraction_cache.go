package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/cache"
)

// DefaultExtractionTTL is how long extracted text stays reusable.
const DefaultExtractionTTL = time.Hour

// ExtractionKey identifies one decode of one document.
type ExtractionKey struct {
	ID        string
	MediaType string
}

func (k ExtractionKey) String() string {
	return k.ID + "|" + normalizeMediaType(k.MediaType)
}

// ExtractionCache memoizes extracted text per (document, media type).
// Concurrent misses for the same key may compute more than once.
type ExtractionCache struct {
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewExtractionCache(store cache.Store, ttl time.Duration, logger *zap.Logger) *ExtractionCache {
	if ttl <= 0 {
		ttl = DefaultExtractionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionCache{store: store, ttl: ttl, logger: logger}
}

// GetOrCompute returns the cached text for key or runs compute and stores its
// result. Errors are returned unchanged and never cached.
func (c *ExtractionCache) GetOrCompute(ctx context.Context, key ExtractionKey, compute func(ctx context.Context) (string, error)) (string, error) {
	if text, ok := c.store.Get(ctx, key.String()); ok {
		c.logger.Debug("extraction cache hit", zap.String("key", key.String()))
		return text, nil
	}

	text, err := compute(ctx)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key.String(), text, c.ttl); err != nil {
		// a store failure only costs a future recomputation
		c.logger.Warn("failed to cache extracted text", zap.String("key", key.String()), zap.Error(err))
	}

	return text, nil
}

// CachedExtractor puts an ExtractionCache in front of a TextExtractor.
type CachedExtractor struct {
	extractor TextExtractor
	cache     *ExtractionCache
}

func NewCachedExtractor(extractor TextExtractor, cache *ExtractionCache) *CachedExtractor {
	return &CachedExtractor{extractor: extractor, cache: cache}
}

// Extract implements TextExtractor. The file path is the document identifier.
func (c *CachedExtractor) Extract(ctx context.Context, filePath, mediaType string) (string, error) {
	key := ExtractionKey{ID: filePath, MediaType: mediaType}
	return c.cache.GetOrCompute(ctx, key, func(ctx context.Context) (string, error) {
		return c.extractor.Extract(ctx, filePath, mediaType)
	})
}
