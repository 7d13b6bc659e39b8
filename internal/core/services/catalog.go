package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
	"github.com/custodia-labs/tmarch/internal/logger"
)

// Ensure FeatureCatalog implements the interface.
var _ driving.FeatureCatalog = (*FeatureCatalog)(nil)

// FeatureCatalog runs a fresh Repository and UseCase chain per fetch.
type FeatureCatalog struct {
	opener  driven.FeatureSourceOpener
	history driven.FeatureHistoryStore
}

// NewFeatureCatalog creates a catalog over opener. history may be nil.
func NewFeatureCatalog(opener driven.FeatureSourceOpener, history driven.FeatureHistoryStore) *FeatureCatalog {
	return &FeatureCatalog{
		opener:  opener,
		history: history,
	}
}

// Variants returns the variants that can be fetched.
func (c *FeatureCatalog) Variants() []domain.FeatureVariant {
	if c.opener == nil {
		return nil
	}
	return c.opener.Variants()
}

// Get opens variant, fetches its entity and releases the source.
func (c *FeatureCatalog) Get(ctx context.Context, variant domain.FeatureVariant) (*domain.FeatureEntity, error) {
	if c.opener == nil {
		return nil, domain.ErrNotImplemented
	}

	repo, closer, err := c.opener.OpenRepository(variant)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", variant, err)
	}
	if closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn("Closing %s source: %v", variant, err)
			}
		}()
	}

	return NewFeatureGetUseCase(repo, c.history).GetEntity(ctx)
}
