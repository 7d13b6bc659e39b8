package feature

import (
	"context"

	featurerepo "github.com/custodia-labs/tmarch/internal/adapters/driven/feature"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/viewmodel"
	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
	"github.com/custodia-labs/tmarch/internal/core/services"
	"github.com/custodia-labs/tmarch/internal/logger"
)

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithStyles sets the styles of built views.
func WithStyles(s *styles.Styles) FactoryOption {
	return func(f *Factory) {
		if s != nil {
			f.styles = s
		}
	}
}

// WithHistory records every successful fetch into store.
func WithHistory(store driven.FeatureHistoryStore) FactoryOption {
	return func(f *Factory) { f.history = store }
}

// WithContext sets the parent context of every view model built.
func WithContext(ctx context.Context) FactoryOption {
	return func(f *Factory) {
		if ctx != nil {
			f.ctx = ctx
		}
	}
}

// Factory builds independent Repository, UseCase, ViewModel and View chains.
// Repositories come from the variant dispatch table of the wiring.
type Factory struct {
	wiring  *featurerepo.Wiring
	styles  *styles.Styles
	history driven.FeatureHistoryStore
	ctx     context.Context
}

// NewFactory creates a factory over wiring.
func NewFactory(wiring *featurerepo.Wiring, opts ...FactoryOption) *Factory {
	f := &Factory{
		wiring: wiring,
		styles: styles.DefaultStyles(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Styles returns the styles of built views.
func (f *Factory) Styles() *styles.Styles {
	return f.styles
}

// Settings returns the feature settings in use.
func (f *Factory) Settings() domain.FeatureSettings {
	return f.wiring.Settings()
}

// Variants returns the variants the factory can build.
func (f *Factory) Variants() []domain.FeatureVariant {
	return f.wiring.Variants()
}

// Build constructs a new chain for d.
func (f *Factory) Build(d Descriptor, opts ...ViewOption) (*View, error) {
	src, err := f.wiring.Open(d.Variant)
	if err != nil {
		return nil, err
	}

	useCase := services.NewFeatureGetUseCase(src.Repository, f.history)
	vm := viewmodel.NewFeatureViewModel(useCase,
		viewmodel.WithPolicy(f.wiring.Settings().RefreshPolicy),
		viewmodel.WithContext(f.ctx),
	)

	all := append([]ViewOption{WithChanges(src.Changes), WithCloser(src.Closer())}, opts...)
	logger.Debug("Built feature chain %s (policy %s)", d.Key(), vm.Policy())
	return NewView(f.styles, d, vm, all...), nil
}
