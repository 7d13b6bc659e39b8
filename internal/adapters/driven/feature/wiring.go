package feature

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/tmarch/internal/adapters/driven/feature/file"
	"github.com/custodia-labs/tmarch/internal/adapters/driven/feature/static"
	"github.com/custodia-labs/tmarch/internal/adapters/driven/feature/throttle"
	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
	"github.com/custodia-labs/tmarch/internal/logger"
)

// ErrUnknownVariant is returned for a variant with no builder.
var ErrUnknownVariant = errors.New("feature: unknown variant")

// ErrVariantUnavailable is returned when a known variant lacks the
// dependency it needs, such as a history database for "sqlite".
var ErrVariantUnavailable = errors.New("feature: variant unavailable")

// Source is an opened repository plus an optional change feed.
type Source struct {
	Repository driven.FeatureRepository

	// Changes fires when the backing data changes. Nil when not watched.
	Changes <-chan struct{}

	closer io.Closer
}

// Close releases the change feed, if any.
func (s Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Closer returns the resource behind Changes, or nil.
func (s Source) Closer() io.Closer {
	return s.closer
}

// builder opens the repository of one variant.
type builder func(w *Wiring) (Source, error)

// builders is the dispatch table keyed by variant.
var builders = map[domain.FeatureVariant]builder{
	domain.FeatureVariantStatic: openStatic,
	domain.FeatureVariantFile:   openFile,
	domain.FeatureVariantSQLite: openSQLite,
}

// Ensure Wiring implements the opener port.
var _ driven.FeatureSourceOpener = (*Wiring)(nil)

// Option configures a Wiring.
type Option func(*Wiring)

// WithLatest sets the repository behind the "sqlite" variant.
func WithLatest(repo driven.FeatureRepository) Option {
	return func(w *Wiring) { w.latest = repo }
}

// WithClock sets the clock of the static variant.
func WithClock(now func() time.Time) Option {
	return func(w *Wiring) { w.now = now }
}

// WithoutWatch disables change feeds regardless of settings.
func WithoutWatch() Option {
	return func(w *Wiring) { w.noWatch = true }
}

// Wiring opens repositories according to feature settings.
type Wiring struct {
	settings domain.FeatureSettings
	latest   driven.FeatureRepository
	now      func() time.Time
	noWatch  bool
}

// NewWiring creates a Wiring for settings.
func NewWiring(settings domain.FeatureSettings, opts ...Option) *Wiring {
	w := &Wiring{settings: settings, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Settings returns the settings in use.
func (w *Wiring) Settings() domain.FeatureSettings {
	return w.settings
}

// Variants returns the variants with a builder, in display order.
func (w *Wiring) Variants() []domain.FeatureVariant {
	var out []domain.FeatureVariant
	for _, v := range domain.AllFeatureVariants() {
		if _, ok := builders[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Open builds a fresh repository for variant, throttled when configured.
// Callers must Close the returned Source.
func (w *Wiring) Open(variant domain.FeatureVariant) (Source, error) {
	build, ok := builders[variant]
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}

	src, err := build(w)
	if err != nil {
		return Source{}, err
	}

	if w.settings.IsThrottled() {
		src.Repository = throttle.New(src.Repository, w.settings.RateLimit, w.settings.Burst)
	}
	return src, nil
}

// OpenRepository opens variant for one-shot use.
func (w *Wiring) OpenRepository(variant domain.FeatureVariant) (driven.FeatureRepository, io.Closer, error) {
	src, err := w.Open(variant)
	if err != nil {
		return nil, nil, err
	}
	return src.Repository, src, nil
}

func openStatic(w *Wiring) (Source, error) {
	return Source{Repository: static.NewRepository(static.WithClock(w.now))}, nil
}

func openFile(w *Wiring) (Source, error) {
	path := w.settings.FilePath
	if path == "" {
		return Source{}, fmt.Errorf("%w: file variant has no path configured", ErrVariantUnavailable)
	}

	repo, err := file.NewRepository(path)
	if err != nil {
		return Source{}, err
	}

	src := Source{Repository: repo}
	if !w.settings.Watch || w.noWatch {
		return src, nil
	}

	watcher, err := file.NewWatcher(path)
	if err != nil {
		// Still usable without push updates.
		logger.Warn("Watching %s: %v", path, err)
		return src, nil
	}
	src.Changes = watcher.Changes()
	src.closer = watcher
	return src, nil
}

func openSQLite(w *Wiring) (Source, error) {
	if w.latest == nil {
		return Source{}, fmt.Errorf("%w: no history database", ErrVariantUnavailable)
	}
	return Source{Repository: w.latest}, nil
}
