package domain

import "strings"

// RefreshPolicy decides how overlapping refreshes of one view model resolve.
type RefreshPolicy string

// Available refresh policies.
const (
	// RefreshPolicySupersede cancels any in-flight fetch when a new refresh starts
	// and discards results of superseded fetches.
	RefreshPolicySupersede RefreshPolicy = "supersede"

	// RefreshPolicyLastWriteWins applies every fetch in completion order.
	// The fetch that resolves last wins, regardless of call order.
	RefreshPolicyLastWriteWins RefreshPolicy = "last_write_wins"
)

// IsValid returns true if the policy is recognised.
func (p RefreshPolicy) IsValid() bool {
	switch p {
	case RefreshPolicySupersede, RefreshPolicyLastWriteWins:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p RefreshPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p RefreshPolicy) Description() string {
	switch p {
	case RefreshPolicySupersede:
		return "Supersede (latest request wins)"
	case RefreshPolicyLastWriteWins:
		return "Last write wins (latest completion wins)"
	default:
		return unknownDescription
	}
}

// ParseRefreshPolicy parses a policy name, accepting dashes for underscores.
func ParseRefreshPolicy(s string) (RefreshPolicy, error) {
	p := RefreshPolicy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !p.IsValid() {
		return "", ErrInvalidInput
	}
	return p, nil
}

// AllRefreshPolicies returns all available refresh policies.
func AllRefreshPolicies() []RefreshPolicy {
	return []RefreshPolicy{
		RefreshPolicySupersede,
		RefreshPolicyLastWriteWins,
	}
}

// FeatureSettings holds configuration for the feature chain.
type FeatureSettings struct {
	// Variant selects the repository wiring.
	Variant FeatureVariant

	// RefreshPolicy decides how overlapping refreshes resolve.
	RefreshPolicy RefreshPolicy

	// FilePath is the document read by the file variant.
	FilePath string

	// Watch enables push refreshes when the feature file changes.
	Watch bool

	// RateLimit caps fetches per second. Zero disables throttling.
	RateLimit float64

	// Burst is the number of fetches allowed above RateLimit at once.
	Burst int
}

// IsThrottled returns true if fetches should pass through a rate limiter.
func (f FeatureSettings) IsThrottled() bool {
	return f.RateLimit > 0
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Feature holds feature chain settings.
	Feature FeatureSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The file path is left empty; callers resolve it against the home directory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Feature: FeatureSettings{
			Variant:       FeatureVariantStatic,
			RefreshPolicy: RefreshPolicySupersede,
			Watch:         true,
			RateLimit:     0,
			Burst:         1,
		},
	}
}
