package driving

import "github.com/custodia-labs/scoperag/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Effective returns stored settings with environment overrides applied.
	Effective() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetCorpusPath updates the corpus file location.
	SetCorpusPath(path string) error

	// SetDefaultK updates the default number of query results.
	SetDefaultK(k int) error

	// Set updates a single setting by its dotted config key.
	Set(key, value string) error

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error
}
