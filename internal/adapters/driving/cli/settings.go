package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the feature variant, refresh policy and sources.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsVariantCmd = &cobra.Command{
	Use:   "variant [name]",
	Short: "Set the default feature variant",
	Long: `Set the variant the TUI and 'feature show' use by default.

Available variants:
  static - Fabricated entity, no I/O ("impl" is accepted as an alias)
  file   - Entity decoded from a JSON, YAML or TOML document
  sqlite - Newest entity in the history database

Without an argument, an interactive choice is offered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsVariant,
}

var settingsPolicyCmd = &cobra.Command{
	Use:   "policy [name]",
	Short: "Set the refresh policy",
	Long: `Set how overlapping refreshes resolve.

Available policies:
  supersede       - A new refresh cancels older ones; only the newest result is shown
  last_write_wins - Every result is applied in completion order

Without an argument, an interactive choice is offered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsPolicy,
}

var settingsFileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Set the document read by the file variant",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsFile,
}

var settingsRateCmd = &cobra.Command{
	Use:   "rate <per-second> [burst]",
	Short: "Limit how often a feature source is read",
	Long:  `Limit fetches per second for every variant. A rate of 0 disables throttling.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSettingsRate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsVariantCmd)
	settingsCmd.AddCommand(settingsPolicyCmd)
	settingsCmd.AddCommand(settingsFileCmd)
	settingsCmd.AddCommand(settingsRateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	f := settings.Feature

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Feature]")
	cmd.Printf("  Variant: %s\n", f.Variant.Description())
	cmd.Printf("  Refresh policy: %s\n", f.RefreshPolicy.Description())
	if f.FilePath != "" {
		cmd.Printf("  File: %s\n", f.FilePath)
	} else {
		cmd.Printf("  File: (not set)\n")
	}
	cmd.Printf("  Watch file: %t\n", f.Watch)
	if f.IsThrottled() {
		cmd.Printf("  Rate limit: %g/s (burst %d)\n", f.RateLimit, f.Burst)
	} else {
		cmd.Printf("  Rate limit: unlimited\n")
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsVariant(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var variant domain.FeatureVariant
	if len(args) == 1 {
		v, err := domain.ParseFeatureVariant(args[0])
		if err != nil {
			return err
		}
		variant = v
	} else {
		variants := domain.AllFeatureVariants()
		labels := make([]string, len(variants))
		for i, v := range variants {
			labels[i] = v.Description()
		}
		idx := choose(cmd, "Select Feature Variant", labels)
		if idx == 0 {
			return errors.New("invalid selection")
		}
		variant = variants[idx-1]
	}

	if err := settingsService.SetVariant(variant); err != nil {
		return fmt.Errorf("failed to set variant: %w", err)
	}

	cmd.Printf("Feature variant set to: %s\n", variant.Description())

	if variant == domain.FeatureVariantFile {
		settings, _ := settingsService.Get() //nolint:errcheck // Best-effort check
		if settings != nil && settings.Feature.FilePath == "" {
			cmd.Println("\nNote: This variant requires a document.")
			cmd.Println("Run 'tmarch settings file <path>' to configure.")
		}
	}
	return nil
}

func runSettingsPolicy(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var policy domain.RefreshPolicy
	if len(args) == 1 {
		p, err := domain.ParseRefreshPolicy(args[0])
		if err != nil {
			return err
		}
		policy = p
	} else {
		policies := domain.AllRefreshPolicies()
		labels := make([]string, len(policies))
		for i, p := range policies {
			labels[i] = p.Description()
		}
		idx := choose(cmd, "Select Refresh Policy", labels)
		if idx == 0 {
			return errors.New("invalid selection")
		}
		policy = policies[idx-1]
	}

	if err := settingsService.SetRefreshPolicy(policy); err != nil {
		return fmt.Errorf("failed to set refresh policy: %w", err)
	}

	cmd.Printf("Refresh policy set to: %s\n", policy.Description())
	return nil
}

func runSettingsFile(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetFilePath(args[0]); err != nil {
		return fmt.Errorf("failed to set file: %w", err)
	}

	cmd.Printf("Feature file set to: %s\n", args[0])
	return nil
}

func runSettingsRate(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	perSecond, err := strconv.ParseFloat(args[0], 64)
	if err != nil || perSecond < 0 {
		return fmt.Errorf("invalid rate %q", args[0])
	}
	burst := 1
	if len(args) == 2 {
		burst, err = strconv.Atoi(args[1])
		if err != nil || burst < 1 {
			return fmt.Errorf("invalid burst %q", args[1])
		}
	}

	if err := settingsService.SetRateLimit(perSecond, burst); err != nil {
		return fmt.Errorf("failed to set rate limit: %w", err)
	}

	if perSecond == 0 {
		cmd.Println("Rate limit disabled")
		return nil
	}
	cmd.Printf("Rate limit set to: %g/s (burst %d)\n", perSecond, burst)
	return nil
}

// choose prints a numbered list and reads a 1-based choice. Returns 0 when invalid.
func choose(cmd *cobra.Command, title string, labels []string) int {
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println(title)
	cmd.Println(strings.Repeat("-", len(title)))
	for i, label := range labels {
		cmd.Printf("  %d. %s\n", i+1, label)
	}
	cmd.Print("\nEnter choice: ")
	return parseChoice(readLine(reader), len(labels), 0)
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
