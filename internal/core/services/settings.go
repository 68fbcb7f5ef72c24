package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/custodia-labs/scoperag/internal/core/domain"
	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
	"github.com/custodia-labs/scoperag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDimensions = "embedding.dimensions"
	keyCorpusPath      = "corpus.path"
	keyCorpusWatch     = "corpus.watch"
	keyDefaultK        = "query.default_k"
	keyServerAddr      = "server.addr"
	keyCORSOrigins     = "server.cors_origins"
	keyCacheEnabled    = "cache.enabled"
	keyCacheDir        = "cache.dir"
	keyRateLimitRPS    = "ratelimit.rps"
	keyRateLimitBurst  = "ratelimit.burst"
)

// Environment variables that override stored settings.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvEmbeddingAPIKey  = "SCOPERAG_EMBEDDING_API_KEY"
	EnvEmbeddingBaseURL = "SCOPERAG_EMBEDDING_BASE_URL"
	EnvCorpusPath       = "SCOPERAG_CORPUS_PATH"
	EnvAddr             = "SCOPERAG_ADDR"
)

// maxDefaultK bounds query.default_k.
const maxDefaultK = 100

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves stored application settings, filling gaps with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - adapters know their endpoint
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
		},
		Corpus: domain.CorpusSettings{
			Path:  s.getString(keyCorpusPath, defaults.Corpus.Path),
			Watch: s.getBool(keyCorpusWatch, defaults.Corpus.Watch),
		},
		Query: domain.QuerySettings{
			DefaultK: s.getInt(keyDefaultK, defaults.Query.DefaultK),
		},
		Server: domain.ServerSettings{
			Addr:        s.getString(keyServerAddr, defaults.Server.Addr),
			CORSOrigins: s.getStringSlice(keyCORSOrigins, defaults.Server.CORSOrigins),
		},
		Cache: domain.CacheSettings{
			Enabled: s.getBool(keyCacheEnabled, defaults.Cache.Enabled),
			Dir:     s.configStore.GetString(keyCacheDir),
		},
		RateLimit: domain.RateLimitSettings{
			RequestsPerSecond: s.getFloat(keyRateLimitRPS, defaults.RateLimit.RequestsPerSecond),
			Burst:             s.getInt(keyRateLimitBurst, defaults.RateLimit.Burst),
		},
	}

	return settings, nil
}

// Effective returns stored settings with environment overrides applied.
// Overrides are never written back by Save.
func (s *SettingsService) Effective() (*domain.AppSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	if v := s.getenv(EnvEmbeddingAPIKey); v != "" {
		settings.Embedding.APIKey = v
	}
	if v := s.getenv(EnvEmbeddingBaseURL); v != "" {
		settings.Embedding.BaseURL = v
	}
	if v := s.getenv(EnvCorpusPath); v != "" {
		settings.Corpus.Path = v
	}
	if v := s.getenv(EnvAddr); v != "" {
		settings.Server.Addr = v
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedDimensions, settings.Embedding.Dimensions); err != nil {
		return fmt.Errorf("save embedding dimensions: %w", err)
	}

	// Save corpus settings
	if err := s.configStore.Set(keyCorpusPath, settings.Corpus.Path); err != nil {
		return fmt.Errorf("save corpus path: %w", err)
	}
	if err := s.configStore.Set(keyCorpusWatch, settings.Corpus.Watch); err != nil {
		return fmt.Errorf("save corpus watch: %w", err)
	}

	// Save query and server settings
	if err := s.configStore.Set(keyDefaultK, settings.Query.DefaultK); err != nil {
		return fmt.Errorf("save default k: %w", err)
	}
	if err := s.configStore.Set(keyServerAddr, settings.Server.Addr); err != nil {
		return fmt.Errorf("save server addr: %w", err)
	}
	if err := s.configStore.Set(keyCORSOrigins, settings.Server.CORSOrigins); err != nil {
		return fmt.Errorf("save cors origins: %w", err)
	}

	// Save cache and rate limit settings
	if err := s.configStore.Set(keyCacheEnabled, settings.Cache.Enabled); err != nil {
		return fmt.Errorf("save cache enabled: %w", err)
	}
	if err := s.configStore.Set(keyCacheDir, settings.Cache.Dir); err != nil {
		return fmt.Errorf("save cache dir: %w", err)
	}
	if err := s.configStore.Set(keyRateLimitRPS, settings.RateLimit.RequestsPerSecond); err != nil {
		return fmt.Errorf("save rate limit rps: %w", err)
	}
	if err := s.configStore.Set(keyRateLimitBurst, settings.RateLimit.Burst); err != nil {
		return fmt.Errorf("save rate limit burst: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// OpenAI models accept a dimensions override, so keep the configured
	// size. Local models have a fixed size.
	if provider.IsLocal() {
		if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
			settings.Embedding.Dimensions = d
		}
	}

	return s.Save(settings)
}

// SetCorpusPath updates the corpus file location.
func (s *SettingsService) SetCorpusPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: corpus path is empty", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Corpus.Path = path
	return s.Save(settings)
}

// SetDefaultK updates the default number of query results.
func (s *SettingsService) SetDefaultK(k int) error {
	if k < 1 || k > maxDefaultK {
		return fmt.Errorf("%w: default k must be between 1 and %d, got %d", domain.ErrInvalidInput, maxDefaultK, k)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Query.DefaultK = k
	return s.Save(settings)
}

// Set updates a single setting from its string form.
// Keys are the dotted config keys, e.g. "query.default_k".
func (s *SettingsService) Set(key, value string) error {
	switch key {
	case keyEmbedProvider:
		return s.SetEmbeddingProvider(domain.AIProvider(value), "", s.configStore.GetString(keyEmbedAPIKey))
	case keyCorpusPath:
		return s.SetCorpusPath(value)
	case keyDefaultK:
		k, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		return s.SetDefaultK(k)
	case keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyServerAddr, keyCacheDir:
		return s.configStore.Set(key, value)
	case keyEmbedDimensions, keyRateLimitBurst:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	case keyCorpusWatch, keyCacheEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)
	case keyRateLimitRPS:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, f)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Effective()
	if err != nil {
		return err
	}

	if !settings.Embedding.Provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", settings.Embedding.Provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured (API key missing?)",
			settings.Embedding.Provider.Description())
	}
	if settings.Corpus.Path == "" {
		return fmt.Errorf("corpus path is not set")
	}
	if settings.Query.DefaultK < 1 || settings.Query.DefaultK > maxDefaultK {
		return fmt.Errorf("query.default_k must be between 1 and %d", maxDefaultK)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Effective()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
