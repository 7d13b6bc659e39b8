package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

func TestLoad_ReadsVariables(t *testing.T) {
	t.Setenv("TMARCH_HOME", "/tmp/tmarch")
	t.Setenv("TMARCH_VERBOSE", "true")
	t.Setenv("TMARCH_FEATURE_VARIANT", "file")
	t.Setenv("TMARCH_REFRESH_POLICY", "last-write-wins")
	t.Setenv("TMARCH_FEATURE_FILE", "/tmp/feature.yaml")

	e, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/tmarch", e.Home)
	assert.True(t, e.Verbose)
	assert.Equal(t, "file", e.Variant)
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("TMARCH_VERBOSE", "not-a-bool")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestApply_Overrides(t *testing.T) {
	settings := domain.DefaultAppSettings()
	e := Env{Variant: "file", RefreshPolicy: "last-write-wins", FeatureFile: "/tmp/f.json"}

	require.NoError(t, e.Apply(&settings))

	assert.Equal(t, domain.FeatureVariantFile, settings.Feature.Variant)
	assert.Equal(t, domain.RefreshPolicyLastWriteWins, settings.Feature.RefreshPolicy)
	assert.Equal(t, "/tmp/f.json", settings.Feature.FilePath)
}

func TestApply_EmptyLeavesSettings(t *testing.T) {
	settings := domain.DefaultAppSettings()
	want := settings

	require.NoError(t, Env{}.Apply(&settings))
	require.NoError(t, Env{Variant: "file"}.Apply(nil))

	assert.Equal(t, want, settings)
}

func TestApply_InvalidValues(t *testing.T) {
	settings := domain.DefaultAppSettings()

	err := Env{Variant: "bogus"}.Apply(&settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = Env{RefreshPolicy: "bogus"}.Apply(&settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
