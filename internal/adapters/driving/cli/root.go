// Package cli provides the cobra command tree for tmarch.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/feature"
	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
	"github.com/custodia-labs/tmarch/internal/logger"
)

// version is set at build time.
var version = "dev"

// Persistent flags.
var (
	verbose bool
	homeDir string
)

// Core services commands run against. Set by the bootstrap hook or SetServices.
var (
	settingsService driving.SettingsService
	featureCatalog  driving.FeatureCatalog
	historyService  driving.FeatureHistoryService
	featureFactory  *feature.Factory
	resolvedHome    string
	defaultVariant  domain.FeatureVariant
)

// Options carries the persistent flags into the bootstrap hook.
type Options struct {
	// Home overrides the data directory. Empty means the default.
	Home string

	// Verbose enables debug logging.
	Verbose bool
}

// Services is what the bootstrap hook produces.
type Services struct {
	// Home is the resolved data directory.
	Home string

	// Variant is the effective default variant, after env overrides.
	Variant domain.FeatureVariant

	Settings driving.SettingsService
	Catalog  driving.FeatureCatalog
	History  driving.FeatureHistoryService
	Factory  *feature.Factory

	// Close releases everything the services hold. Optional.
	Close func() error
}

// BootstrapFunc composes the services once flags are parsed.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap BootstrapFunc
	closeFn   func() error
)

var rootCmd = &cobra.Command{
	Use:   "tmarch",
	Short: "Layered feature template for the terminal",
	Long: `tmarch shows a feature entity through a layered architecture:
Entity, Repository, UseCase, ViewModel and View.

The entity can come from a fabricated static source, a JSON/YAML/TOML file,
or the local history database.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Data directory (default ~/.tmarch)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the hook that builds services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly, bypassing the bootstrap hook.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	resolvedHome = s.Home
	defaultVariant = s.Variant
	settingsService = s.Settings
	featureCatalog = s.Catalog
	historyService = s.History
	featureFactory = s.Factory
	closeFn = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeFn != nil {
		if cerr := closeFn(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		closeFn = nil
	}
	return err
}

// variantOrDefault parses name, or returns the effective default when empty.
func variantOrDefault(name string) (domain.FeatureVariant, error) {
	if name != "" {
		return domain.ParseFeatureVariant(name)
	}
	if defaultVariant.IsValid() {
		return defaultVariant, nil
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			return settings.Feature.Variant, nil
		}
	}
	return domain.FeatureVariantStatic, nil
}

func setup(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if bootstrap == nil {
		return nil
	}

	services, err := bootstrap(cmd.Context(), Options{Home: homeDir, Verbose: verbose})
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}
