package driving

import (
	"context"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

// FeatureGetUseCase fetches the current feature entity.
// It decouples consumers from the identity of the data source.
type FeatureGetUseCase interface {
	// GetEntity returns the current entity snapshot.
	GetEntity(ctx context.Context) (*domain.FeatureEntity, error)
}

// FeatureHistoryService manages recorded feature entities.
type FeatureHistoryService interface {
	// Add creates a new entity with a generated ID and records it.
	Add(ctx context.Context, name string, description *string) (*domain.FeatureEntity, error)

	// List returns up to limit entities, newest first.
	List(ctx context.Context, limit int) ([]domain.FeatureEntity, error)
}

// FeatureCatalog performs one-shot fetches from any feature variant.
type FeatureCatalog interface {
	// Variants returns the variants that can be fetched.
	Variants() []domain.FeatureVariant

	// Get opens variant, fetches its entity and releases the source.
	Get(ctx context.Context, variant domain.FeatureVariant) (*domain.FeatureEntity, error)
}
