// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/scoperag/internal/adapters/driven/embedding/cached"
	ollamaembed "github.com/custodia-labs/scoperag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/scoperag/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/scoperag/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/scoperag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scoperag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scoperag/internal/core/domain"
	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of embedding service initialisation.
type InitResult struct {
	// EmbeddingService is the provider wrapped with the embedding cache.
	EmbeddingService driven.EmbeddingService

	// CachePath is where cached vectors live, or ":memory:".
	CachePath string

	// Warnings lists non-fatal issues that caused a fallback.
	Warnings []string
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
}

// CreateAndValidateEmbeddingService creates the configured embedding provider,
// pings it once and wraps it with the embedding cache.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.AppSettings) (*InitResult, error) {
	if settings == nil || !settings.Embedding.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider is not configured. Run 'scoperag settings set embedding.provider ollama' to fix",
			domain.ErrEmbeddingUnavailable)
	}

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: settings.RateLimit.RequestsPerSecond,
		Burst:             settings.RateLimit.Burst,
	})

	svc, err := CreateEmbeddingService(&settings.Embedding, limiter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	result := &InitResult{}
	cache, path, err := CreateEmbeddingCache(settings.Cache)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("embedding cache unavailable, using memory: %v", err))
		cache, path = memory.NewEmbeddingCache(0, 0), ":memory:"
	}

	result.EmbeddingService = cached.NewEmbeddingService(svc, cache)
	result.CachePath = path
	return result, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings, nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the embedding service for settings.Provider.
// limiter may be nil.
func CreateEmbeddingService(settings *domain.EmbeddingSettings, limiter *ratelimit.Limiter) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("embedding settings are required")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.ResolvedDimensions(),
			Limiter:    limiter,
		})

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
			Limiter:    limiter,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateEmbeddingCache opens the on-disk cache when enabled and an
// in-memory cache otherwise. The returned path describes its location.
func CreateEmbeddingCache(settings domain.CacheSettings) (driven.EmbeddingCache, string, error) {
	if !settings.Enabled {
		return memory.NewEmbeddingCache(0, 0), ":memory:", nil
	}

	store, err := sqlite.NewStore(settings.Dir)
	if err != nil {
		return nil, "", err
	}
	return store, store.Path(), nil
}
