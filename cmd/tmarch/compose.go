package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/tmarch/internal/adapters/driven/config/env"
	"github.com/custodia-labs/tmarch/internal/adapters/driven/config/file"
	featurerepo "github.com/custodia-labs/tmarch/internal/adapters/driven/feature"
	"github.com/custodia-labs/tmarch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/cli"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/feature"
	"github.com/custodia-labs/tmarch/internal/core/services"
	"github.com/custodia-labs/tmarch/internal/logger"
)

// defaultFeatureFile is read by the file variant when no path is configured.
const defaultFeatureFile = "feature.yaml"

// compose wires every adapter around the core services.
func compose(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	overrides, err := env.Load()
	if err != nil {
		return nil, err
	}
	if overrides.Verbose {
		logger.SetVerbose(true)
	}

	home, err := resolveHome(opts.Home, overrides.Home)
	if err != nil {
		return nil, err
	}
	logger.Section("Bootstrap")
	logger.Debug("Home: %s", home)

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, filepath.Join(home, defaultFeatureFile))

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := overrides.Apply(settings); err != nil {
		return nil, err
	}
	logger.Debug("Feature variant %s, policy %s", settings.Feature.Variant, settings.Feature.RefreshPolicy)

	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	history := store.HistoryStore()

	wiring := featurerepo.NewWiring(settings.Feature, featurerepo.WithLatest(store.FeatureRepository()))
	factory := feature.NewFactory(wiring,
		feature.WithHistory(history),
		feature.WithContext(ctx),
	)

	return &cli.Services{
		Home:     home,
		Variant:  settings.Feature.Variant,
		Settings: settingsService,
		Catalog:  services.NewFeatureCatalog(wiring, history),
		History:  services.NewFeatureHistoryService(history),
		Factory:  factory,
		Close:    store.Close,
	}, nil
}

// resolveHome picks the flag, then TMARCH_HOME, then ~/.tmarch.
func resolveHome(flag, fromEnv string) (string, error) {
	switch {
	case flag != "":
		return flag, nil
	case fromEnv != "":
		return fromEnv, nil
	default:
		return file.DefaultDir()
	}
}
