// Package cached decorates an embedding service with a content-addressed cache.
//
// Keys are the hex SHA-256 of the model name, vector size and text, so a
// vector is only reused for the same model output and the same input. Only
// batch embeds are cached; single query embeds go straight to the wrapped
// service. Cache failures are logged and fall through to the wrapped service.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
	"github.com/custodia-labs/scoperag/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService serves embeddings from a cache before asking the wrapped service.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache driven.EmbeddingCache
}

// NewEmbeddingService wraps inner with cache.
func NewEmbeddingService(inner driven.EmbeddingService, cache driven.EmbeddingCache) *EmbeddingService {
	return &EmbeddingService{
		inner: inner,
		cache: cache,
	}
}

// Key returns the cache key for text under model at dims dimensions.
func Key(model string, dims int, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(dims)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Embed embeds a single query text without touching the cache.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.inner.Embed(ctx, text)
}

// EmbedBatch embeds only the texts missing from the cache, in one call
// to the wrapped service, and returns vectors in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	model := s.inner.ModelName()
	dims := s.inner.Dimensions()
	vectors := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var missTexts []string
	var missIdx []int

	for i, text := range texts {
		keys[i] = Key(model, dims, text)
		vec, ok, err := s.cache.Get(ctx, keys[i])
		if err != nil {
			logger.Warn("embedding cache read failed: %v", err)
		}
		if ok && dims > 0 && len(vec) != dims {
			logger.Debug("Embedding cache: ignoring %d-dim vector, want %d", len(vec), dims)
			ok = false
		}
		if ok {
			vectors[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	logger.Debug("Embedding cache: %d hits, %d misses", len(texts)-len(missTexts), len(missTexts))

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := s.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d texts", len(fresh), len(missTexts))
	}

	for j, i := range missIdx {
		vectors[i] = fresh[j]
		if err := s.cache.Put(ctx, keys[i], fresh[j]); err != nil {
			logger.Warn("embedding cache write failed: %v", err)
		}
	}

	return vectors, nil
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the wrapped service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the cache and the wrapped service.
func (s *EmbeddingService) Close() error {
	return errors.Join(s.cache.Close(), s.inner.Close())
}
