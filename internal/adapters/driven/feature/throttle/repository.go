// Package throttle wraps a FeatureRepository with a token bucket limiter.
package throttle

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
)

// Ensure Repository implements the interface.
var _ driven.FeatureRepository = (*Repository)(nil)

// Repository delays fetches so that the wrapped source sees at most
// perSecond calls per second, with bursts up to burst.
type Repository struct {
	next    driven.FeatureRepository
	limiter *rate.Limiter
}

// New wraps next. A non-positive perSecond disables throttling.
func New(next driven.FeatureRepository, perSecond float64, burst int) *Repository {
	r := &Repository{next: next}
	if perSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return r
}

// Throttled reports whether a limiter is active.
func (r *Repository) Throttled() bool {
	return r.limiter != nil
}

// GetFeature waits for a token and then delegates.
func (r *Repository) GetFeature(ctx context.Context) (*domain.FeatureEntity, error) {
	if r.next == nil {
		return nil, domain.ErrNotImplemented
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("throttle wait: %w", err)
		}
	}
	return r.next.GetFeature(ctx)
}
