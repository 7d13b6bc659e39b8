package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
)

// Ensure FeatureRepository implements the interface.
var _ driven.FeatureRepository = (*FeatureRepository)(nil)

// Result is one scripted response of a FeatureRepository.
type Result struct {
	// Entity is returned when Err is nil.
	Entity *domain.FeatureEntity

	// Err is returned instead of Entity when set.
	Err error

	// Delay is waited before returning.
	Delay time.Duration

	// Gate, if non-nil, blocks the call until it is closed.
	Gate <-chan struct{}
}

// FeatureRepository is a scripted in-memory repository.
// Calls consume queued results in order; once the queue is drained the
// last result is repeated. With nothing queued it reports domain.ErrNotFound.
type FeatureRepository struct {
	mu      sync.Mutex
	results []Result
	last    *Result
	calls   int
}

// NewFeatureRepository creates a repository with queued results.
func NewFeatureRepository(results ...Result) *FeatureRepository {
	return &FeatureRepository{results: results}
}

// Enqueue appends results to the queue.
func (r *FeatureRepository) Enqueue(results ...Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, results...)
}

// Calls returns how many times GetFeature was invoked.
func (r *FeatureRepository) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// GetFeature returns the next scripted result.
func (r *FeatureRepository) GetFeature(ctx context.Context) (*domain.FeatureEntity, error) {
	res, ok := r.next()
	if !ok {
		return nil, domain.NewFeatureError(domain.ErrNotFound, "memory", nil)
	}

	if res.Gate != nil {
		select {
		case <-res.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if res.Delay > 0 {
		timer := time.NewTimer(res.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if res.Err != nil {
		return nil, res.Err
	}
	return res.Entity, nil
}

func (r *FeatureRepository) next() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if len(r.results) > 0 {
		res := r.results[0]
		r.results = r.results[1:]
		r.last = &res
		return res, true
	}
	if r.last != nil {
		return *r.last, true
	}
	return Result{}, false
}
