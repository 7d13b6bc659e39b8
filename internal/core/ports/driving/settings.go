package driving

import "github.com/custodia-labs/tmarch/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetVariant updates the default feature variant.
	SetVariant(variant domain.FeatureVariant) error

	// SetRefreshPolicy updates how overlapping refreshes resolve.
	SetRefreshPolicy(policy domain.RefreshPolicy) error

	// SetFilePath updates the document read by the file variant.
	SetFilePath(path string) error

	// SetRateLimit updates the fetch rate limit. Zero disables throttling.
	SetRateLimit(perSecond float64, burst int) error

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
