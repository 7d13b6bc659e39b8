// Package static provides the reference FeatureRepository.
// It has no backing source and fabricates a new entity on every fetch.
package static

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
)

// Default values of fabricated entities.
const (
	DefaultName              = "Feature Name"
	DefaultDescriptionPrefix = "Feature Description"
)

// Ensure Repository implements the interface.
var _ driven.FeatureRepository = (*Repository)(nil)

// Repository fabricates entities at call time.
type Repository struct {
	name   string
	now    func() time.Time
	nextID func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithName overrides the fabricated name.
func WithName(name string) Option {
	return func(r *Repository) { r.name = name }
}

// WithClock overrides the time source used for descriptions and CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides the ID source.
func WithIDGenerator(next func() string) Option {
	return func(r *Repository) { r.nextID = next }
}

// NewRepository creates a static repository.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		name:   DefaultName,
		now:    time.Now,
		nextID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetFeature returns a freshly constructed entity.
// It fails only when ctx is already done.
func (r *Repository) GetFeature(ctx context.Context) (*domain.FeatureEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	at := r.now()
	desc := fmt.Sprintf("%s %s", DefaultDescriptionPrefix, at.Format(time.RFC3339))
	return domain.NewFeatureEntity(r.nextID(), r.name, &desc, at.UTC()), nil
}
