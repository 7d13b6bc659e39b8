package services

import (
	"context"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
	"github.com/custodia-labs/tmarch/internal/logger"
)

// Ensure FeatureGetUseCase implements the interface.
var _ driving.FeatureGetUseCase = (*FeatureGetUseCase)(nil)

// FeatureGetUseCase forwards to a FeatureRepository.
// Results pass through untouched, except that an empty result is reported as
// ErrNotFound. An optional history store records successes.
type FeatureGetUseCase struct {
	repository driven.FeatureRepository
	history    driven.FeatureHistoryStore
}

// NewFeatureGetUseCase creates a new use case over repository.
// history may be nil.
func NewFeatureGetUseCase(
	repository driven.FeatureRepository,
	history driven.FeatureHistoryStore,
) *FeatureGetUseCase {
	return &FeatureGetUseCase{
		repository: repository,
		history:    history,
	}
}

// GetEntity returns the current entity snapshot.
func (u *FeatureGetUseCase) GetEntity(ctx context.Context) (*domain.FeatureEntity, error) {
	if u.repository == nil {
		return nil, domain.ErrNotImplemented
	}

	entity, err := u.repository.GetFeature(ctx)
	if err != nil {
		logger.Debug("Feature fetch failed: %v", err)
		return nil, err
	}
	if entity == nil {
		return nil, domain.NewFeatureError(domain.ErrNotFound, "repository", nil)
	}

	if u.history != nil {
		if err := u.history.Save(ctx, entity); err != nil {
			logger.Warn("Recording feature %s: %v", entity.ID, err)
		}
	}

	return entity, nil
}
