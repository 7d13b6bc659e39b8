package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// FeatureVariant identifies which concrete repository wiring backs the feature.
type FeatureVariant string

// Available feature variants.
const (
	// FeatureVariantStatic fabricates a fresh entity on every fetch.
	FeatureVariantStatic FeatureVariant = "static"

	// FeatureVariantFile reads the entity from a TOML, YAML or JSON file.
	FeatureVariantFile FeatureVariant = "file"

	// FeatureVariantSQLite reads the newest entity from the history database.
	FeatureVariantSQLite FeatureVariant = "sqlite"
)

// IsValid returns true if the variant is recognised.
func (v FeatureVariant) IsValid() bool {
	switch v {
	case FeatureVariantStatic, FeatureVariantFile, FeatureVariantSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (v FeatureVariant) String() string {
	return string(v)
}

// Description returns a human-readable description of the variant.
func (v FeatureVariant) Description() string {
	switch v {
	case FeatureVariantStatic:
		return "Static (generated on each fetch)"
	case FeatureVariantFile:
		return "File (watched TOML/YAML/JSON document)"
	case FeatureVariantSQLite:
		return "SQLite (latest history entry)"
	default:
		return unknownDescription
	}
}

// ParseFeatureVariant parses a variant name. "impl" is accepted as an alias
// for the static variant.
func ParseFeatureVariant(s string) (FeatureVariant, error) {
	v := FeatureVariant(strings.ToLower(strings.TrimSpace(s)))
	if v == "impl" {
		return FeatureVariantStatic, nil
	}
	if !v.IsValid() {
		return "", fmt.Errorf("%w: feature variant %q", ErrInvalidInput, s)
	}
	return v, nil
}

// AllFeatureVariants returns all available variants in display order.
func AllFeatureVariants() []FeatureVariant {
	return []FeatureVariant{
		FeatureVariantStatic,
		FeatureVariantFile,
		FeatureVariantSQLite,
	}
}
