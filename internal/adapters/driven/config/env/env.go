// Package env reads TMARCH_* environment overrides.
package env

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

// Env holds the environment overrides. Empty fields leave settings untouched.
type Env struct {
	Home          string `env:"TMARCH_HOME"`
	Verbose       bool   `env:"TMARCH_VERBOSE"`
	Variant       string `env:"TMARCH_FEATURE_VARIANT"`
	RefreshPolicy string `env:"TMARCH_REFRESH_POLICY"`
	FeatureFile   string `env:"TMARCH_FEATURE_FILE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the process environment into an Env.
func Load() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// Apply overlays the overrides onto settings.
func (e Env) Apply(settings *domain.AppSettings) error {
	if settings == nil {
		return nil
	}
	if e.Variant != "" {
		v, err := domain.ParseFeatureVariant(e.Variant)
		if err != nil {
			return fmt.Errorf("TMARCH_FEATURE_VARIANT: %w", err)
		}
		settings.Feature.Variant = v
	}
	if e.RefreshPolicy != "" {
		p, err := domain.ParseRefreshPolicy(e.RefreshPolicy)
		if err != nil {
			return fmt.Errorf("TMARCH_REFRESH_POLICY %q: %w", e.RefreshPolicy, err)
		}
		settings.Feature.RefreshPolicy = p
	}
	if e.FeatureFile != "" {
		settings.Feature.FilePath = e.FeatureFile
	}
	return nil
}
