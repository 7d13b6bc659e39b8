package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.FeatureHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.FeatureHistoryStore.
type HistoryStore struct {
	mu       sync.RWMutex
	entities []domain.FeatureEntity
	seen     map[string]struct{}
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		seen: make(map[string]struct{}),
	}
}

// Save stores an entity. Saving an existing ID is a no-op.
func (s *HistoryStore) Save(_ context.Context, entity *domain.FeatureEntity) error {
	if entity == nil || entity.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[entity.ID]; ok {
		return nil
	}
	s.seen[entity.ID] = struct{}{}
	s.entities = append(s.entities, *domain.NewFeatureEntity(
		entity.ID, entity.Name, entity.Description, entity.CreatedAt,
	))
	return nil
}

// Latest returns the most recently created entity.
func (s *HistoryStore) Latest(ctx context.Context) (*domain.FeatureEntity, error) {
	list, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.NewFeatureError(domain.ErrNotFound, "memory", nil)
	}
	return &list[0], nil
}

// List returns up to limit entities, newest first.
// Entities with equal timestamps keep reverse insertion order.
func (s *HistoryStore) List(_ context.Context, limit int) ([]domain.FeatureEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.FeatureEntity, 0, len(s.entities))
	for i := len(s.entities) - 1; i >= 0; i-- {
		out = append(out, s.entities[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetFeature serves the latest entity, letting the store act as a repository.
func (s *HistoryStore) GetFeature(ctx context.Context) (*domain.FeatureEntity, error) {
	return s.Latest(ctx)
}
