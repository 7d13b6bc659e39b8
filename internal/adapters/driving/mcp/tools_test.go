package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

func TestServer_handleFeatureGet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the entity of the requested variant", func(t *testing.T) {
		catalog := &mockCatalog{
			entity: domain.NewFeatureEntity("id-1", "Feature Name", domain.StringPtr("About"), fixedTime),
		}
		server, err := NewServer(&Ports{Catalog: catalog})
		require.NoError(t, err)

		_, output, err := server.handleFeatureGet(ctx, nil, FeatureGetInput{Variant: "file"})

		require.NoError(t, err)
		assert.Equal(t, []domain.FeatureVariant{domain.FeatureVariantFile}, catalog.got)
		assert.Equal(t, "file", output.Variant)
		assert.Equal(t, "id-1", output.ID)
		assert.Equal(t, "Feature Name", output.Name)
		require.NotNil(t, output.Description)
		assert.Equal(t, "About", *output.Description)
		assert.Equal(t, "2024-05-06T07:08:09Z", output.CreatedAt)
	})

	t.Run("uses configured variant by default", func(t *testing.T) {
		catalog := &mockCatalog{entity: domain.NewFeatureEntity("id-1", "A", nil, fixedTime)}
		server, err := NewServer(&Ports{
			Catalog:  catalog,
			Settings: &mockSettingsService{variant: domain.FeatureVariantSQLite},
		})
		require.NoError(t, err)

		_, output, err := server.handleFeatureGet(ctx, nil, FeatureGetInput{})

		require.NoError(t, err)
		assert.Equal(t, "sqlite", output.Variant)
		assert.Nil(t, output.Description)
	})

	t.Run("rejects unknown variant", func(t *testing.T) {
		catalog := &mockCatalog{}
		server, err := NewServer(&Ports{Catalog: catalog})
		require.NoError(t, err)

		_, _, err = server.handleFeatureGet(ctx, nil, FeatureGetInput{Variant: "remote"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, catalog.got)
	})

	t.Run("returns error on fetch failure", func(t *testing.T) {
		catalog := &mockCatalog{
			err: domain.NewFeatureError(domain.ErrSourceUnavailable, "file", errors.New("gone")),
		}
		server, err := NewServer(&Ports{Catalog: catalog})
		require.NoError(t, err)

		_, _, err = server.handleFeatureGet(ctx, nil, FeatureGetInput{})

		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})
}

func TestServer_handleVariants(t *testing.T) {
	catalog := &mockCatalog{variants: domain.AllFeatureVariants()}
	server, err := NewServer(&Ports{
		Catalog:  catalog,
		Settings: &mockSettingsService{variant: domain.FeatureVariantFile},
	})
	require.NoError(t, err)

	_, output, err := server.handleVariants(context.Background(), nil, VariantsInput{})

	require.NoError(t, err)
	assert.Equal(t, "file", output.Default)
	require.Len(t, output.Variants, len(domain.AllFeatureVariants()))
	assert.Equal(t, "static", output.Variants[0].Name)
	assert.NotEmpty(t, output.Variants[0].Description)
}

func TestServer_handleFeatureAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("records a new entity", func(t *testing.T) {
		history := &mockHistoryService{}
		server, err := NewServer(&Ports{Catalog: &mockCatalog{}, History: history})
		require.NoError(t, err)

		_, output, err := server.handleFeatureAdd(ctx, nil, FeatureAddInput{Name: "New"})

		require.NoError(t, err)
		require.NotNil(t, history.added)
		assert.Equal(t, "new-id", output.ID)
		assert.Equal(t, "New", output.Name)
	})

	t.Run("history not configured", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalog{}})
		require.NoError(t, err)

		_, _, err = server.handleFeatureAdd(ctx, nil, FeatureAddInput{Name: "New"})

		assert.ErrorIs(t, err, ErrHistoryUnavailable)
	})

	t.Run("returns error on add failure", func(t *testing.T) {
		history := &mockHistoryService{err: domain.ErrInvalidInput}
		server, err := NewServer(&Ports{Catalog: &mockCatalog{}, History: history})
		require.NoError(t, err)

		_, _, err = server.handleFeatureAdd(ctx, nil, FeatureAddInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns recorded entities", func(t *testing.T) {
		history := &mockHistoryService{
			entities: []domain.FeatureEntity{
				*domain.NewFeatureEntity("b", "B", nil, fixedTime),
				*domain.NewFeatureEntity("a", "A", nil, fixedTime),
			},
		}
		server, err := NewServer(&Ports{Catalog: &mockCatalog{}, History: history})
		require.NoError(t, err)

		_, output, err := server.handleHistory(ctx, nil, HistoryInput{Limit: 5})

		require.NoError(t, err)
		assert.Equal(t, 5, history.limit)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "b", output.Features[0].ID)
		assert.Equal(t, "a", output.Features[1].ID)
	})

	t.Run("default limit is 10", func(t *testing.T) {
		history := &mockHistoryService{}
		server, err := NewServer(&Ports{Catalog: &mockCatalog{}, History: history})
		require.NoError(t, err)

		_, output, err := server.handleHistory(ctx, nil, HistoryInput{})

		require.NoError(t, err)
		assert.Equal(t, 10, history.limit)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("history not configured", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalog{}})
		require.NoError(t, err)

		_, _, err = server.handleHistory(ctx, nil, HistoryInput{})

		assert.ErrorIs(t, err, ErrHistoryUnavailable)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		history := &mockHistoryService{err: errors.New("database error")}
		server, err := NewServer(&Ports{Catalog: &mockCatalog{}, History: history})
		require.NoError(t, err)

		_, _, err = server.handleHistory(ctx, nil, HistoryInput{})

		assert.Contains(t, err.Error(), "database error")
	})
}
