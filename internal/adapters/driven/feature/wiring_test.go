package feature

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tmarch/internal/adapters/driven/feature/throttle"
	"github.com/custodia-labs/tmarch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tmarch/internal/core/domain"
)

func TestWiring_Variants(t *testing.T) {
	w := NewWiring(domain.DefaultAppSettings().Feature)

	assert.Equal(t, domain.AllFeatureVariants(), w.Variants())
}

func TestWiring_OpenStatic(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	w := NewWiring(domain.DefaultAppSettings().Feature, WithClock(func() time.Time { return at }))

	src, err := w.Open(domain.FeatureVariantStatic)
	require.NoError(t, err)
	defer src.Close()

	e, err := src.Repository.GetFeature(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Feature Name", e.Name)
	assert.Nil(t, src.Changes)
	assert.Nil(t, src.Closer())
}

func TestWiring_OpenUnknown(t *testing.T) {
	w := NewWiring(domain.DefaultAppSettings().Feature)

	_, err := w.Open(domain.FeatureVariant("nope"))

	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestWiring_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feature.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"From file"}`), 0600))

	settings := domain.DefaultAppSettings().Feature
	settings.FilePath = path

	t.Run("watched", func(t *testing.T) {
		src, err := NewWiring(settings).Open(domain.FeatureVariantFile)
		require.NoError(t, err)
		defer src.Close()

		assert.NotNil(t, src.Changes)
		e, err := src.Repository.GetFeature(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "From file", e.Name)
	})

	t.Run("unwatched", func(t *testing.T) {
		src, err := NewWiring(settings, WithoutWatch()).Open(domain.FeatureVariantFile)
		require.NoError(t, err)

		assert.Nil(t, src.Changes)
		assert.NoError(t, src.Close())
	})
}

func TestWiring_OpenFileWithoutPath(t *testing.T) {
	_, err := NewWiring(domain.DefaultAppSettings().Feature).Open(domain.FeatureVariantFile)

	assert.ErrorIs(t, err, ErrVariantUnavailable)
}

func TestWiring_OpenFileUnsupportedExtension(t *testing.T) {
	settings := domain.DefaultAppSettings().Feature
	settings.FilePath = "/tmp/feature.ini"

	_, err := NewWiring(settings).Open(domain.FeatureVariantFile)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestWiring_OpenSQLite(t *testing.T) {
	settings := domain.DefaultAppSettings().Feature

	_, err := NewWiring(settings).Open(domain.FeatureVariantSQLite)
	assert.ErrorIs(t, err, ErrVariantUnavailable)

	latest := memory.NewFeatureRepository(memory.Result{Entity: domain.NewFeatureEntity("1", "Stored", nil, time.Now())})
	src, err := NewWiring(settings, WithLatest(latest)).Open(domain.FeatureVariantSQLite)
	require.NoError(t, err)

	e, err := src.Repository.GetFeature(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Stored", e.Name)
}

func TestWiring_Throttled(t *testing.T) {
	settings := domain.DefaultAppSettings().Feature
	settings.RateLimit = 5
	settings.Burst = 2

	src, err := NewWiring(settings).Open(domain.FeatureVariantStatic)
	require.NoError(t, err)

	repo, ok := src.Repository.(*throttle.Repository)
	require.True(t, ok)
	assert.True(t, repo.Throttled())
}

func TestWiring_OpenRepository(t *testing.T) {
	w := NewWiring(domain.DefaultAppSettings().Feature)

	repo, closer, err := w.OpenRepository(domain.FeatureVariantStatic)
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()

	e, err := repo.GetFeature(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Feature Name", e.Name)
}

func TestWiring_OpenRepositoryUnavailable(t *testing.T) {
	w := NewWiring(domain.DefaultAppSettings().Feature)

	repo, closer, err := w.OpenRepository(domain.FeatureVariantSQLite)

	assert.ErrorIs(t, err, ErrVariantUnavailable)
	assert.Nil(t, repo)
	assert.Nil(t, closer)
}
