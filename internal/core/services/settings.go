package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyFeatureVariant  = "feature.variant"
	keyRefreshPolicy   = "feature.refresh_policy"
	keyFeatureFilePath = "feature.file_path"
	keyFeatureWatch    = "feature.watch"
	keyRateLimit       = "feature.rate_limit"
	keyRateBurst       = "feature.burst"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore     driven.ConfigStore
	defaultFilePath string
}

// NewSettingsService creates a new settings service.
// defaultFilePath is used by the file variant when no path is configured.
func NewSettingsService(configStore driven.ConfigStore, defaultFilePath string) *SettingsService {
	return &SettingsService{
		configStore:     configStore,
		defaultFilePath: defaultFilePath,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()

	settings := &domain.AppSettings{
		Feature: domain.FeatureSettings{
			Variant:       s.getVariant(defaults.Feature.Variant),
			RefreshPolicy: s.getRefreshPolicy(defaults.Feature.RefreshPolicy),
			FilePath:      s.getString(keyFeatureFilePath, defaults.Feature.FilePath),
			Watch:         s.getBool(keyFeatureWatch, defaults.Feature.Watch),
			RateLimit:     s.getFloat(keyRateLimit, defaults.Feature.RateLimit),
			Burst:         s.getInt(keyRateBurst, defaults.Feature.Burst),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	f := settings.Feature

	if err := s.configStore.Set(keyFeatureVariant, f.Variant.String()); err != nil {
		return fmt.Errorf("save feature variant: %w", err)
	}
	if err := s.configStore.Set(keyRefreshPolicy, f.RefreshPolicy.String()); err != nil {
		return fmt.Errorf("save refresh policy: %w", err)
	}
	if f.FilePath != "" {
		if err := s.configStore.Set(keyFeatureFilePath, f.FilePath); err != nil {
			return fmt.Errorf("save feature file path: %w", err)
		}
	}
	if err := s.configStore.Set(keyFeatureWatch, f.Watch); err != nil {
		return fmt.Errorf("save feature watch: %w", err)
	}
	if err := s.configStore.Set(keyRateLimit, f.RateLimit); err != nil {
		return fmt.Errorf("save rate limit: %w", err)
	}
	if err := s.configStore.Set(keyRateBurst, f.Burst); err != nil {
		return fmt.Errorf("save rate burst: %w", err)
	}

	return nil
}

// SetVariant updates the default feature variant.
func (s *SettingsService) SetVariant(variant domain.FeatureVariant) error {
	if !variant.IsValid() {
		return fmt.Errorf("invalid feature variant: %s", variant)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Feature.Variant = variant
	return s.Save(settings)
}

// SetRefreshPolicy updates how overlapping refreshes resolve.
func (s *SettingsService) SetRefreshPolicy(policy domain.RefreshPolicy) error {
	if !policy.IsValid() {
		return fmt.Errorf("invalid refresh policy: %s", policy)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Feature.RefreshPolicy = policy
	return s.Save(settings)
}

// SetFilePath updates the document read by the file variant.
func (s *SettingsService) SetFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty file path", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Feature.FilePath = path
	return s.Save(settings)
}

// SetRateLimit updates the fetch rate limit. Zero disables throttling.
func (s *SettingsService) SetRateLimit(perSecond float64, burst int) error {
	if perSecond < 0 || math.IsNaN(perSecond) || math.IsInf(perSecond, 0) {
		return fmt.Errorf("%w: rate limit must be a finite number >= 0", domain.ErrInvalidInput)
	}
	if burst < 1 {
		return fmt.Errorf("%w: burst must be at least 1", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Feature.RateLimit = perSecond
	settings.Feature.Burst = burst
	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Feature.Variant.IsValid() {
		return fmt.Errorf("invalid feature variant: %s", settings.Feature.Variant)
	}
	if !settings.Feature.RefreshPolicy.IsValid() {
		return fmt.Errorf("invalid refresh policy: %s", settings.Feature.RefreshPolicy)
	}
	if settings.Feature.Variant == domain.FeatureVariantFile && settings.Feature.FilePath == "" {
		return fmt.Errorf("feature variant %q requires a file path", settings.Feature.Variant.Description())
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	defaults.Feature.FilePath = s.defaultFilePath
	return defaults
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

func (s *SettingsService) getVariant(defaultVal domain.FeatureVariant) domain.FeatureVariant {
	val := s.configStore.GetString(keyFeatureVariant)
	if val == "" {
		return defaultVal
	}
	variant, err := domain.ParseFeatureVariant(val)
	if err != nil {
		return defaultVal
	}
	return variant
}

func (s *SettingsService) getRefreshPolicy(defaultVal domain.RefreshPolicy) domain.RefreshPolicy {
	val := s.configStore.GetString(keyRefreshPolicy)
	if val == "" {
		return defaultVal
	}
	policy, err := domain.ParseRefreshPolicy(val)
	if err != nil {
		return defaultVal
	}
	return policy
}
