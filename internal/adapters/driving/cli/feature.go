package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tmarch/internal/adapters/driven/feature/file"
	"github.com/custodia-labs/tmarch/internal/core/domain"
)

var featureCmd = &cobra.Command{
	Use:   "feature",
	Short: "Fetch and record feature entities",
	Long:  `Fetch the feature entity from a variant, or manage the history database.`,
}

var featureShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Fetch and print the feature entity",
	Long: `Fetch the feature entity once and print it.

The variant defaults to the configured one (settings or TMARCH_FEATURE_VARIANT).`,
	Args: cobra.NoArgs,
	RunE: runFeatureShow,
}

var featureVariantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List feature variants",
	Args:  cobra.NoArgs,
	RunE:  runFeatureVariants,
}

var featureAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new feature entity",
	Long: `Record a new entity in the history database. The sqlite variant shows the newest one.

With --file, the entity is also written to a feature document that the file
variant can read. The format follows the extension (.json, .yaml, .yml, .toml).`,
	Args:  cobra.NoArgs,
	RunE:  runFeatureAdd,
}

var featureHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded feature entities",
	Args:  cobra.NoArgs,
	RunE:  runFeatureHistory,
}

// Flags for the feature commands.
var (
	featureVariant     string
	featureJSON        bool
	featureName        string
	featureDescription string
	featureFile        string
	historyLimit       int
)

func init() {
	featureShowCmd.Flags().StringVar(&featureVariant, "variant", "", "Variant to fetch from (static, file, sqlite)")
	featureShowCmd.Flags().BoolVar(&featureJSON, "json", false, "Print the entity as JSON")

	featureAddCmd.Flags().StringVarP(&featureName, "name", "n", "", "Name of the feature")
	featureAddCmd.Flags().StringVarP(&featureDescription, "description", "d", "", "Optional description")
	featureAddCmd.Flags().StringVarP(&featureFile, "file", "f", "", "Also write the entity to this feature document")
	_ = featureAddCmd.MarkFlagRequired("name") //nolint:errcheck // flag exists

	featureHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "Maximum number of entries (0 = all)")

	featureCmd.AddCommand(featureShowCmd)
	featureCmd.AddCommand(featureVariantsCmd)
	featureCmd.AddCommand(featureAddCmd)
	featureCmd.AddCommand(featureHistoryCmd)
	rootCmd.AddCommand(featureCmd)
}

func runFeatureShow(cmd *cobra.Command, _ []string) error {
	if featureCatalog == nil {
		return errors.New("feature catalog not configured")
	}

	variant, err := variantOrDefault(featureVariant)
	if err != nil {
		return err
	}

	entity, err := featureCatalog.Get(cmd.Context(), variant)
	if err != nil {
		return fmt.Errorf("fetching feature: %w", err)
	}

	if featureJSON {
		data, err := json.MarshalIndent(entity, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding feature: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Feature (%s)\n", variant)
	printEntity(cmd, entity)
	return nil
}

func runFeatureVariants(cmd *cobra.Command, _ []string) error {
	if featureCatalog == nil {
		return errors.New("feature catalog not configured")
	}

	current, err := variantOrDefault("")
	if err != nil {
		return err
	}

	cmd.Println("Feature Variants")
	cmd.Println("----------------")
	for _, v := range featureCatalog.Variants() {
		marker := " "
		if v == current {
			marker = "*"
		}
		cmd.Printf("%s %-7s %s\n", marker, v, v.Description())
	}
	return nil
}

func runFeatureAdd(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("feature history not configured")
	}

	if featureFile != "" {
		if _, err := file.FormatForPath(featureFile); err != nil {
			return err
		}
	}

	var description *string
	if cmd.Flags().Changed("description") {
		description = domain.StringPtr(featureDescription)
	}

	entity, err := historyService.Add(cmd.Context(), featureName, description)
	if err != nil {
		return fmt.Errorf("adding feature: %w", err)
	}

	cmd.Println("Feature recorded")
	if featureFile != "" {
		if err := file.Write(featureFile, entity); err != nil {
			return fmt.Errorf("writing feature file: %w", err)
		}
		cmd.Printf("Written to %s\n", featureFile)
	}
	printEntity(cmd, entity)
	return nil
}

func runFeatureHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("feature history not configured")
	}

	entities, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing features: %w", err)
	}

	if len(entities) == 0 {
		cmd.Println("No features recorded.")
		return nil
	}

	cmd.Printf("Feature History (%d)\n", len(entities))
	cmd.Println("---------------")
	for i := range entities {
		e := &entities[i]
		cmd.Printf("%s  %-20s  %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Name, e.DescriptionOr("-"))
	}
	return nil
}

func printEntity(cmd *cobra.Command, e *domain.FeatureEntity) {
	cmd.Printf("  Name: %s\n", e.Name)
	if e.HasDescription() {
		cmd.Printf("  Description: %s\n", *e.Description)
	}
	cmd.Printf("  ID: %s\n", e.ID)
	cmd.Printf("  Created: %s\n", e.CreatedAt.Local().Format(time.RFC3339))
}
