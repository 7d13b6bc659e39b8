package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := commandNames(settingsCmd)

	assert.Contains(t, names, "show")
	assert.Contains(t, names, "variant")
	assert.Contains(t, names, "policy")
	assert.Contains(t, names, "file")
	assert.Contains(t, names, "rate")
}

func TestSettingsShowCmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "", "settings", "show")

	assert.EqualError(t, err, "settings service not configured")
}

func TestSettingsShowCmd_Defaults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "[Feature]")
	assert.Contains(t, out, "Variant: "+domain.FeatureVariantStatic.Description())
	assert.Contains(t, out, "File: (not set)")
	assert.Contains(t, out, "Rate limit: unlimited")
}

func TestSettingsVariantCmd_WithArg(t *testing.T) {
	ts, cleanup := newTestServices()
	defer cleanup()

	out, err := execute(t, "", "settings", "variant", "file")

	require.NoError(t, err)
	assert.Contains(t, out, "Feature variant set to")
	assert.Contains(t, out, "requires a document")
	got, err := ts.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureVariantFile, got.Feature.Variant)
}

func TestSettingsVariantCmd_Interactive(t *testing.T) {
	ts, cleanup := newTestServices()
	defer cleanup()

	out, err := execute(t, "3\n", "settings", "variant")

	require.NoError(t, err)
	assert.Contains(t, out, "Select Feature Variant")
	got, err := ts.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AllFeatureVariants()[2], got.Feature.Variant)
}

func TestSettingsVariantCmd_InvalidSelection(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "9\n", "settings", "variant")

	assert.EqualError(t, err, "invalid selection")
}

func TestSettingsPolicyCmd(t *testing.T) {
	ts, cleanup := newTestServices()
	defer cleanup()

	_, err := execute(t, "", "settings", "policy", "last_write_wins")

	require.NoError(t, err)
	got, err := ts.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.RefreshPolicyLastWriteWins, got.Feature.RefreshPolicy)

	_, err = execute(t, "", "settings", "policy", "random")
	assert.Error(t, err)
}

func TestSettingsFileCmd(t *testing.T) {
	ts, cleanup := newTestServices()
	defer cleanup()

	out, err := execute(t, "", "settings", "file", "/tmp/feature.yaml")

	require.NoError(t, err)
	assert.Contains(t, out, "/tmp/feature.yaml")
	got, err := ts.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/feature.yaml", got.Feature.FilePath)
}

func TestSettingsRateCmd(t *testing.T) {
	ts, cleanup := newTestServices()
	defer cleanup()

	out, err := execute(t, "", "settings", "rate", "2.5", "3")

	require.NoError(t, err)
	assert.Contains(t, out, "2.5/s (burst 3)")
	got, err := ts.settings.Get()
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got.Feature.RateLimit, 0.0001)
	assert.Equal(t, 3, got.Feature.Burst)

	out, err = execute(t, "", "settings", "rate", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Rate limit disabled")
}

func TestSettingsRateCmd_Invalid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "settings", "rate", "fast")
	assert.Error(t, err)

	_, err = execute(t, "", "settings", "rate", "1", "0")
	assert.Error(t, err)
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
