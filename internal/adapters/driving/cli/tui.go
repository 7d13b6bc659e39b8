package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/feature"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/waypoint"
	"github.com/custodia-labs/tmarch/internal/logger"
)

// LogFileName is where logs go while the TUI owns the terminal.
const LogFileName = "tmarch.log"

// ErrNotTerminal is returned when the TUI is started without an interactive terminal.
var ErrNotTerminal = errors.New("tui requires an interactive terminal")

// isTerminal reports whether stdin and stdout are terminals.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for tmarch.

The TUI opens the feature screen of the configured variant. Use --variant to
pick another one, or --menu to start at the variant picker.

Controls:
  ↑/k, ↓/j - Navigate menu
  u, Enter - Refresh feature
  Esc      - Back
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

// Flags for the tui command.
var (
	tuiVariant string
	tuiMenu    bool
)

func init() {
	tuiCmd.Flags().StringVar(&tuiVariant, "variant", "", "Variant to open (static, file, sqlite)")
	tuiCmd.Flags().BoolVar(&tuiMenu, "menu", false, "Start at the variant picker")
	rootCmd.AddCommand(tuiCmd)
}

// startWaypoint returns the first screen to show.
func startWaypoint() (waypoint.Waypoint, error) {
	if tuiMenu {
		return waypoint.Menu(), nil
	}
	variant, err := variantOrDefault(tuiVariant)
	if err != nil {
		return waypoint.Waypoint{}, err
	}
	return waypoint.Feature(feature.Descriptor{Variant: variant}), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !isTerminal() {
		return ErrNotTerminal
	}

	start, err := startWaypoint()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(featureFactory, settingsService), start)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// Logs would corrupt the alternate screen.
	if resolvedHome != "" {
		closeLog, err := logger.SetOutputFile(filepath.Join(resolvedHome, LogFileName))
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer closeLog() //nolint:errcheck // best effort
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
