package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/huimingz/commitsmith/internal/provider"
)

// probeTimeout bounds one availability check
const probeTimeout = 5 * time.Second

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List providers and whether they are ready",
	Long: `List every supported provider with its mode, default model, and
whether its credential or binary was found.

The check is advisory: a provider marked ready can still fail when it is
invoked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		active, _ := a.cfg.GetProvider(providerName)
		statuses, err := probeProviders(cmd.Context(), a.registry)
		if err != nil {
			return err
		}
		printProviders(cmd.OutOrStdout(), statuses, active)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

// providerStatus is one row of the providers table
type providerStatus struct {
	Descriptor provider.Descriptor
	Available  bool
}

// probeProviders runs CheckAvailable for every registered adapter at once.
// The result keeps registration order.
func probeProviders(ctx context.Context, registry *provider.Registry) ([]providerStatus, error) {
	adapters := registry.List()
	statuses := make([]providerStatus, len(adapters))

	g, ctx := errgroup.WithContext(ctx)
	for i, adapter := range adapters {
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			statuses[i] = providerStatus{
				Descriptor: adapter.Descriptor(),
				Available:  adapter.CheckAvailable(probeCtx),
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to probe providers: %w", err)
	}
	return statuses, nil
}

func printProviders(out io.Writer, statuses []providerStatus, active string) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	bold.Fprintf(out, "  %-14s %-5s %-28s %s\n", "PROVIDER", "MODE", "DEFAULT MODEL", "STATUS")
	for _, s := range statuses {
		marker := " "
		if s.Descriptor.ID == active {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-14s %-5s %-28s ", marker, s.Descriptor.ID, s.Descriptor.Mode, s.Descriptor.DefaultModel)
		switch {
		case s.Available:
			green.Fprintln(out, "ready")
		case s.Descriptor.Mode == provider.ModeCLI:
			red.Fprintf(out, "missing binary %q\n", s.Descriptor.Binary)
		default:
			red.Fprintf(out, "missing %s\n", s.Descriptor.SecretEnv)
		}
	}
}
