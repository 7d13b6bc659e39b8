package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

// FeatureRepository produces feature entities.
// Each call returns a freshly constructed entity; callers never mutate it.
//
// Failures are reported as *domain.FeatureError whose Kind is one of
// domain.ErrSourceUnavailable, domain.ErrNotFound or domain.ErrDecodeFailure.
type FeatureRepository interface {
	// GetFeature fetches the current entity snapshot.
	GetFeature(ctx context.Context) (*domain.FeatureEntity, error)
}

// FeatureHistoryStore persists entities so they can be listed and replayed.
type FeatureHistoryStore interface {
	// Save stores an entity. Saving an existing ID is a no-op.
	Save(ctx context.Context, entity *domain.FeatureEntity) error

	// Latest returns the most recently created entity.
	// Returns domain.ErrNotFound when the store is empty.
	Latest(ctx context.Context) (*domain.FeatureEntity, error)

	// List returns up to limit entities, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.FeatureEntity, error)
}

// FeatureSourceOpener opens the repository behind a feature variant.
type FeatureSourceOpener interface {
	// Variants returns the variants that can be opened, in display order.
	Variants() []domain.FeatureVariant

	// OpenRepository builds a fresh repository for variant.
	// The returned closer must be closed when the repository is no longer used.
	OpenRepository(variant domain.FeatureVariant) (FeatureRepository, io.Closer, error)
}
