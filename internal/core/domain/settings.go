package domain

const unknownDescription = "Unknown"

// DefaultK is the number of results returned when a query does not ask for a count.
const DefaultK = 3

// DefaultDimensions is the vector size of all-MiniLM-L6-v2, the reference model.
const DefaultDimensions = 384

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API (or any compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the expected vector size.
	// Zero means the model's known default.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ResolvedDimensions returns the configured dimension, falling back to
// the known dimension of the model and then to DefaultDimensions.
func (e EmbeddingSettings) ResolvedDimensions() int {
	if e.Dimensions > 0 {
		return e.Dimensions
	}
	if d, ok := EmbeddingDimensions()[e.Model]; ok {
		return d
	}
	return DefaultDimensions
}

// CorpusSettings holds the location of the Q&A corpus file.
type CorpusSettings struct {
	// Path is the corpus text file.
	Path string

	// Watch reloads the engine when the file changes.
	Watch bool
}

// QuerySettings holds query defaults.
type QuerySettings struct {
	// DefaultK is used when a query asks for zero or fewer results.
	DefaultK int
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string
}

// CacheSettings holds embedding cache configuration.
type CacheSettings struct {
	// Enabled turns on the on-disk embedding cache.
	Enabled bool

	// Dir is the directory holding the cache database.
	// Empty means ~/.scoperag/data.
	Dir string
}

// RateLimitSettings bounds outbound embedding requests.
type RateLimitSettings struct {
	// RequestsPerSecond is the sustained rate. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	Burst int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Corpus holds corpus file settings.
	Corpus CorpusSettings

	// Query holds query defaults.
	Query QuerySettings

	// Server holds HTTP API settings.
	Server ServerSettings

	// Cache holds embedding cache settings.
	Cache CacheSettings

	// RateLimit holds provider rate limit settings.
	RateLimit RateLimitSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The default provider is a local Ollama serving all-minilm, which is
// all-MiniLM-L6-v2 with 384 dimensions.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      DefaultEmbeddingModels()[AIProviderOllama],
			Dimensions: DefaultDimensions,
		},
		Corpus: CorpusSettings{
			Path:  "scope_final.txt",
			Watch: false,
		},
		Query: QuerySettings{
			DefaultK: DefaultK,
		},
		Server: ServerSettings{
			Addr:        ":8000",
			CORSOrigins: []string{"*"},
		},
		Cache: CacheSettings{
			Enabled: false,
		},
		RateLimit: RateLimitSettings{
			RequestsPerSecond: 0,
			Burst:             1,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
