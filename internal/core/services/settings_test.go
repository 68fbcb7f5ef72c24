package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scoperag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// mockAIValidator records the embedding config it was asked to validate.
type mockAIValidator struct {
	err error
	got *domain.EmbeddingSettings
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.got = config
	return m.err
}

func newSettingsWithEnv(store *memory.ConfigStore, env map[string]string) *SettingsService {
	service := NewSettingsService(store, nil)
	service.getenv = func(key string) string { return env[key] }
	return service
}

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, "all-minilm", settings.Embedding.Model)
	assert.Equal(t, 384, settings.Embedding.Dimensions)
	assert.Equal(t, "scope_final.txt", settings.Corpus.Path)
	assert.Equal(t, 3, settings.Query.DefaultK)
	assert.Equal(t, ":8000", settings.Server.Addr)
	assert.Equal(t, []string{"*"}, settings.Server.CORSOrigins)
	assert.False(t, settings.Cache.Enabled)
	assert.Zero(t, settings.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1, settings.RateLimit.Burst)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{
		"embedding.provider":  "openai",
		"embedding.model":     "text-embedding-3-large",
		"embedding.api_key":   "sk-test",
		"corpus.path":         "/srv/faq.txt",
		"corpus.watch":        true,
		"query.default_k":     5,
		"server.cors_origins": []string{"https://example.com"},
		"cache.enabled":       true,
		"ratelimit.rps":       2.5,
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, "/srv/faq.txt", settings.Corpus.Path)
	assert.True(t, settings.Corpus.Watch)
	assert.Equal(t, 5, settings.Query.DefaultK)
	assert.Equal(t, []string{"https://example.com"}, settings.Server.CORSOrigins)
	assert.True(t, settings.Cache.Enabled)
	assert.InDelta(t, 2.5, settings.RateLimit.RequestsPerSecond, 1e-9)
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{"embedding.provider": "cohere"})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
}

func TestSettingsService_Effective_EnvOverrides(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{
		"embedding.api_key": "from-file",
		"corpus.path":       "file.txt",
	})
	service := newSettingsWithEnv(store, map[string]string{
		EnvEmbeddingAPIKey:  "from-env",
		EnvEmbeddingBaseURL: "http://ollama:11434",
		EnvCorpusPath:       "env.txt",
		EnvAddr:             ":9000",
	})

	settings, err := service.Effective()

	require.NoError(t, err)
	assert.Equal(t, "from-env", settings.Embedding.APIKey)
	assert.Equal(t, "http://ollama:11434", settings.Embedding.BaseURL)
	assert.Equal(t, "env.txt", settings.Corpus.Path)
	assert.Equal(t, ":9000", settings.Server.Addr)

	stored, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "from-file", stored.Embedding.APIKey)
	assert.Equal(t, "file.txt", stored.Corpus.Path)
}

func TestSettingsService_Effective_NotSaved(t *testing.T) {
	store := memory.NewConfigStore()
	service := newSettingsWithEnv(store, map[string]string{EnvEmbeddingAPIKey: "secret"})

	settings, err := service.Effective()
	require.NoError(t, err)
	require.NoError(t, service.SetDefaultK(7))

	assert.Equal(t, "secret", settings.Embedding.APIKey)
	assert.Empty(t, store.GetString("embedding.api_key"))
	assert.Equal(t, 7, store.GetInt("query.default_k"))
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	want := domain.DefaultAppSettings()
	want.Embedding = domain.EmbeddingSettings{
		Provider:   domain.AIProviderOpenAI,
		Model:      "text-embedding-3-small",
		APIKey:     "sk-test",
		Dimensions: 512,
	}
	want.Corpus = domain.CorpusSettings{Path: "faq.txt", Watch: true}
	want.Query.DefaultK = 8
	want.Server = domain.ServerSettings{Addr: "127.0.0.1:8080", CORSOrigins: []string{"http://localhost:3000"}}
	want.Cache = domain.CacheSettings{Enabled: true, Dir: "/tmp/cache"}
	want.RateLimit = domain.RateLimitSettings{RequestsPerSecond: 10, Burst: 5}

	require.NoError(t, service.Save(&want))
	got, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name       string
		provider   domain.AIProvider
		model      string
		apiKey     string
		wantErr    bool
		wantModel  string
		wantURL    string
		wantDims   int
		wantAPIKey string
	}{
		{
			name:      "ollama default model",
			provider:  domain.AIProviderOllama,
			wantModel: "all-minilm",
			wantURL:   "http://localhost:11434",
			wantDims:  384,
		},
		{
			name:      "ollama known model sets dimensions",
			provider:  domain.AIProviderOllama,
			model:     "nomic-embed-text",
			wantModel: "nomic-embed-text",
			wantURL:   "http://localhost:11434",
			wantDims:  768,
		},
		{
			name:       "openai keeps dimension override",
			provider:   domain.AIProviderOpenAI,
			apiKey:     "sk-test",
			wantModel:  "text-embedding-3-small",
			wantURL:    "",
			wantDims:   384,
			wantAPIKey: "sk-test",
		},
		{
			name:     "openai without key",
			provider: domain.AIProviderOpenAI,
			wantErr:  true,
		},
		{
			name:     "unknown provider",
			provider: "cohere",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), nil)

			err := service.SetEmbeddingProvider(tt.provider, tt.model, tt.apiKey)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Embedding.Provider)
			assert.Equal(t, tt.wantModel, settings.Embedding.Model)
			assert.Equal(t, tt.wantURL, settings.Embedding.BaseURL)
			assert.Equal(t, tt.wantDims, settings.Embedding.Dimensions)
			assert.Equal(t, tt.wantAPIKey, settings.Embedding.APIKey)
		})
	}
}

func TestSettingsService_SetDefaultK(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetDefaultK(10))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 10, settings.Query.DefaultK)

	for _, k := range []int{0, -1, 101} {
		assert.ErrorIs(t, service.SetDefaultK(k), domain.ErrInvalidInput, "k=%d", k)
	}
}

func TestSettingsService_SetCorpusPath(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetCorpusPath("data/faq.txt"))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "data/faq.txt", settings.Corpus.Path)

	assert.ErrorIs(t, service.SetCorpusPath(""), domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{key: "query.default_k", value: "5", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 5, s.Query.DefaultK)
		}},
		{key: "query.default_k", value: "five", wantErr: true},
		{key: "query.default_k", value: "500", wantErr: true},
		{key: "corpus.path", value: "faq.txt", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "faq.txt", s.Corpus.Path)
		}},
		{key: "corpus.watch", value: "true", check: func(t *testing.T, s *domain.AppSettings) {
			assert.True(t, s.Corpus.Watch)
		}},
		{key: "corpus.watch", value: "sometimes", wantErr: true},
		{key: "embedding.model", value: "mxbai-embed-large", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "mxbai-embed-large", s.Embedding.Model)
		}},
		{key: "embedding.dimensions", value: "256", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 256, s.Embedding.Dimensions)
		}},
		{key: "embedding.dimensions", value: "-1", wantErr: true},
		{key: "embedding.provider", value: "ollama", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.AIProviderOllama, s.Embedding.Provider)
		}},
		{key: "server.addr", value: ":9090", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, ":9090", s.Server.Addr)
		}},
		{key: "cache.enabled", value: "true", check: func(t *testing.T, s *domain.AppSettings) {
			assert.True(t, s.Cache.Enabled)
		}},
		{key: "ratelimit.rps", value: "1.5", check: func(t *testing.T, s *domain.AppSettings) {
			assert.InDelta(t, 1.5, s.RateLimit.RequestsPerSecond, 1e-9)
		}},
		{key: "ratelimit.rps", value: "-2", wantErr: true},
		{key: "ratelimit.burst", value: "4", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 4, s.RateLimit.Burst)
		}},
		{key: "search.mode", value: "hybrid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), nil)

			err := service.Set(tt.key, tt.value)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Set_UnknownKey(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	err := service.Set("llm.provider", "anthropic")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "llm.provider")
}

func TestSettingsService_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		assert.NoError(t, service.Validate())
	})

	t.Run("openai without key", func(t *testing.T) {
		store := memory.NewConfigStoreFrom(map[string]any{"embedding.provider": "openai"})
		service := newSettingsWithEnv(store, nil)
		assert.ErrorContains(t, service.Validate(), "not configured")
	})

	t.Run("openai key from environment", func(t *testing.T) {
		store := memory.NewConfigStoreFrom(map[string]any{"embedding.provider": "openai"})
		service := newSettingsWithEnv(store, map[string]string{EnvEmbeddingAPIKey: "sk-env"})
		assert.NoError(t, service.Validate())
	})

	t.Run("default k out of range", func(t *testing.T) {
		store := memory.NewConfigStoreFrom(map[string]any{"query.default_k": 1000})
		service := NewSettingsService(store, nil)
		assert.ErrorContains(t, service.Validate(), "query.default_k")
	})
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	t.Run("no validator", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		assert.NoError(t, service.ValidateEmbeddingConfig())
	})

	t.Run("uses effective settings", func(t *testing.T) {
		validator := &mockAIValidator{err: errors.New("unreachable")}
		service := NewSettingsService(memory.NewConfigStore(), validator)
		service.getenv = func(key string) string {
			if key == EnvEmbeddingBaseURL {
				return "http://gpu-box:11434"
			}
			return ""
		}

		err := service.ValidateEmbeddingConfig()

		assert.ErrorContains(t, err, "unreachable")
		require.NotNil(t, validator.got)
		assert.Equal(t, "http://gpu-box:11434", validator.got.BaseURL)
	})
}
