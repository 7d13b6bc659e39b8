package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	featurerepo "github.com/custodia-labs/tmarch/internal/adapters/driven/feature"
	"github.com/custodia-labs/tmarch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/feature"
	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/services"
)

// testServices holds the in-memory services installed by setupTestServices.
type testServices struct {
	config   *memory.ConfigStore
	history  *memory.HistoryStore
	settings *services.SettingsService
}

// setupTestServices installs in-memory services and returns a cleanup func.
func setupTestServices() func() {
	_, cleanup := newTestServices()
	return cleanup
}

func newTestServices() (*testServices, func()) {
	ts := &testServices{
		config:  memory.NewConfigStore(),
		history: memory.NewHistoryStore(),
	}
	ts.settings = services.NewSettingsService(ts.config, "")

	wiring := featurerepo.NewWiring(domain.DefaultAppSettings().Feature,
		featurerepo.WithLatest(ts.history), featurerepo.WithoutWatch())

	SetServices(&Services{
		Settings: ts.settings,
		Catalog:  services.NewFeatureCatalog(wiring, ts.history),
		History:  services.NewFeatureHistoryService(ts.history),
		Factory:  feature.NewFactory(wiring),
	})
	return ts, func() { SetServices(nil) }
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue) //nolint:errcheck // defaults always parse
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func commandNames(cmd *cobra.Command) []string {
	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	return names
}
