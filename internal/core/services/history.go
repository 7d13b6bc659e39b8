package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
)

// Ensure FeatureHistoryService implements the interface.
var _ driving.FeatureHistoryService = (*FeatureHistoryService)(nil)

// FeatureHistoryService manages recorded feature entities.
type FeatureHistoryService struct {
	store driven.FeatureHistoryStore
	now   func() time.Time
}

// NewFeatureHistoryService creates a new history service.
func NewFeatureHistoryService(store driven.FeatureHistoryStore) *FeatureHistoryService {
	return &FeatureHistoryService{
		store: store,
		now:   time.Now,
	}
}

// Add creates a new entity with a generated ID and records it.
func (s *FeatureHistoryService) Add(
	ctx context.Context,
	name string,
	description *string,
) (*domain.FeatureEntity, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	entity := domain.NewFeatureEntity(uuid.New().String(), name, description, s.now().UTC())
	if err := s.store.Save(ctx, entity); err != nil {
		return nil, fmt.Errorf("saving feature: %w", err)
	}
	return entity, nil
}

// List returns up to limit entities, newest first.
func (s *FeatureHistoryService) List(ctx context.Context, limit int) ([]domain.FeatureEntity, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx, limit)
}
