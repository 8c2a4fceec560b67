package driving

import "github.com/custodia-labs/livres/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set validates and stores a single key.
	Set(key, value string) error

	// Keys returns the settable keys.
	Keys() []string

	// Lookup returns the effective value of a key as text.
	// Secrets are masked.
	Lookup(key string) (string, error)

	// Validate checks that the configured providers have what they need.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
