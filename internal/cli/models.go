package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huimingz/commitsmith/internal/catalog"
	"github.com/huimingz/commitsmith/internal/config"
	"github.com/huimingz/commitsmith/internal/log"
	"github.com/huimingz/commitsmith/internal/ui"
)

var pickDefault bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List, check, and pick provider models",
	Long:  `Commands for browsing the model catalog of each provider.`,
}

var modelsListCmd = &cobra.Command{
	Use:   "list [provider]",
	Short: "List the models a provider offers",
	Long: `List the chat models a provider offers, best first.

Without an argument the active provider is used (--provider, then
COMMITSMITH_PROVIDER, then default_provider).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		id, err := a.cfg.GetProvider(firstArg(args, providerName))
		if err != nil {
			return err
		}
		return listModels(cmd.Context(), a, id, cmd.OutOrStdout())
	},
}

var modelsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that configured models still exist",
	Long: `Look up the configured model of the active provider and of every
fallback provider in its catalog. Missing models fail the check,
deprecated models only warn.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		id, err := a.cfg.GetProvider(providerName)
		if err != nil {
			return err
		}
		ids := []string{id}
		for _, fallback := range a.cfg.FallbackProviders {
			if fallback != id {
				ids = append(ids, fallback)
			}
		}
		return checkModels(cmd.Context(), a, ids, cmd.OutOrStdout())
	},
}

var modelsPickCmd = &cobra.Command{
	Use:   "pick [provider]",
	Short: "Choose a model interactively and save it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if a.configPath == "" {
			return errors.New("no config file to save the choice to, run 'commitsmith init' first")
		}
		id, err := a.cfg.GetProvider(firstArg(args, providerName))
		if err != nil {
			return err
		}

		models, err := a.fetchModels(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to fetch models for %s: %w", id, err)
		}
		log.Info("%d models available for %s", len(models), id)
		model, err := ui.PickModel(fmt.Sprintf("Model for %s", id), models, a.cfg.GetModel(id, ""))
		if err != nil {
			return err
		}
		if err := config.SetProviderModel(a.configPath, id, model, pickDefault); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s now uses %s (saved to %s)\n", id, model, a.configPath)
		return nil
	},
}

func init() {
	modelsPickCmd.Flags().BoolVar(&pickDefault, "default", false, "Also make this provider the default")

	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsCheckCmd)
	modelsCmd.AddCommand(modelsPickCmd)
	rootCmd.AddCommand(modelsCmd)
}

func firstArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}

func listModels(ctx context.Context, a *app, providerID string, out io.Writer) error {
	models, err := a.fetchModels(ctx, providerID)
	if err != nil {
		return fmt.Errorf("failed to fetch models for %s: %w", providerID, err)
	}
	if len(models) == 0 {
		fmt.Fprintf(out, "No models available for %s.\n", providerID)
		return nil
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	current := a.cfg.GetModel(providerID, "")
	bold.Fprintf(out, "Models for %s:\n\n", providerID)
	for _, m := range models {
		switch {
		case m.ID == current:
			green.Fprintf(out, "  ✓ %-40s %s (current)\n", m.ID, m.DisplayName)
		case m.Deprecated:
			yellow.Fprintf(out, "    %-40s %s (deprecated)\n", m.ID, m.DisplayName)
		default:
			fmt.Fprintf(out, "    %-40s %s\n", m.ID, m.DisplayName)
		}
	}
	return nil
}

// checkModels reports on every provider and fails when any configured model
// is missing. Catalogs that cannot be fetched are skipped with a warning.
func checkModels(ctx context.Context, a *app, providerIDs []string, out io.Writer) error {
	printer := ui.NewPrinter(out)
	missing := 0
	for _, id := range providerIDs {
		model := a.cfg.GetModel(id, "")
		models, err := a.fetchModels(ctx, id)
		if err != nil {
			log.Debug("Fetching catalog for %s failed: %v", id, err)
			_ = printer.PrintWarning(fmt.Sprintf("%s: cannot fetch catalog: %v", id, err))
			continue
		}

		_, err = catalog.Find(models, model)
		switch {
		case err == nil:
			_ = printer.PrintSuccess(fmt.Sprintf("%s: %s", id, model))
		case errors.Is(err, catalog.ErrModelDeprecated):
			_ = printer.PrintWarning(fmt.Sprintf("%s: %s is deprecated", id, model))
		default:
			missing++
			_ = printer.PrintError(fmt.Sprintf("%s: %s is not offered, run 'commitsmith models pick %s'", id, model, id))
		}
	}

	if missing > 0 {
		return fmt.Errorf("%w: %d configured model(s)", catalog.ErrModelNotFound, missing)
	}
	return nil
}
