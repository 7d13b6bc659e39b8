package mcp

import (
	"context"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

// mockCatalog is a mock implementation of driving.FeatureCatalog.
type mockCatalog struct {
	entity   *domain.FeatureEntity
	err      error
	variants []domain.FeatureVariant
	got      []domain.FeatureVariant
}

func (m *mockCatalog) Variants() []domain.FeatureVariant {
	return m.variants
}

func (m *mockCatalog) Get(_ context.Context, variant domain.FeatureVariant) (*domain.FeatureEntity, error) {
	m.got = append(m.got, variant)
	return m.entity, m.err
}

// mockHistoryService is a mock implementation of driving.FeatureHistoryService.
type mockHistoryService struct {
	entities []domain.FeatureEntity
	added    *domain.FeatureEntity
	limit    int
	err      error
}

func (m *mockHistoryService) Add(
	_ context.Context,
	name string,
	description *string,
) (*domain.FeatureEntity, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.added = domain.NewFeatureEntity("new-id", name, description, fixedTime)
	return m.added, nil
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.FeatureEntity, error) {
	m.limit = limit
	return m.entities, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	variant domain.FeatureVariant
	err     error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := domain.DefaultAppSettings()
	s.Feature.Variant = m.variant
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetVariant(_ domain.FeatureVariant) error { return m.err }

func (m *mockSettingsService) SetRefreshPolicy(_ domain.RefreshPolicy) error { return m.err }

func (m *mockSettingsService) SetFilePath(_ string) error { return m.err }

func (m *mockSettingsService) SetRateLimit(_ float64, _ int) error { return m.err }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
