package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "tmarch", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := commandNames(rootCmd)

	assert.Contains(t, names, "tui")
	assert.Contains(t, names, "feature")
	assert.Contains(t, names, "settings")
	assert.Contains(t, names, "mcp")
	assert.Contains(t, names, "version")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("home"))
}

func TestSetBootstrap_ReceivesFlags(t *testing.T) {
	defer SetServices(nil)
	var got Options
	SetBootstrap(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{Home: opts.Home, Variant: domain.FeatureVariantFile}, nil
	})
	defer SetBootstrap(nil)

	_, err := execute(t, "", "--home", "/tmp/tmarch-test", "settings", "show")

	// No settings service was provided by the hook.
	require.Error(t, err)
	assert.Equal(t, "/tmp/tmarch-test", got.Home)
	assert.Equal(t, "/tmp/tmarch-test", resolvedHome)
	assert.Equal(t, domain.FeatureVariantFile, defaultVariant)
}

func TestSetBootstrap_ErrorAbortsCommand(t *testing.T) {
	SetBootstrap(func(context.Context, Options) (*Services, error) {
		return nil, errors.New("no disk")
	})
	defer SetBootstrap(nil)

	_, err := execute(t, "", "settings", "show")

	assert.EqualError(t, err, "no disk")
}

func TestExecuteContext_ClosesServices(t *testing.T) {
	closed := 0
	SetBootstrap(func(context.Context, Options) (*Services, error) {
		return &Services{Close: func() error { closed++; return nil }}, nil
	})
	defer SetBootstrap(nil)
	defer SetServices(nil)
	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"feature", "variants"})
	defer rootCmd.SetArgs(nil)

	err := ExecuteContext(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, closed)
}

func TestVariantOrDefault(t *testing.T) {
	ts, cleanup := newTestServices()
	defer cleanup()

	v, err := variantOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureVariantStatic, v)

	require.NoError(t, ts.settings.SetVariant(domain.FeatureVariantSQLite))
	v, err = variantOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureVariantSQLite, v)

	defaultVariant = domain.FeatureVariantFile
	v, err = variantOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureVariantFile, v)

	v, err = variantOrDefault("impl")
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureVariantStatic, v)

	_, err = variantOrDefault("remote")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
