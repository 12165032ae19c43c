package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cargocov.dev/cli/internal/process"
)

func newPlanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [flags] [-- test-args...]",
		Short: "Print the cargo command the effective configuration produces",
		Long: `Print the cargo command line built from the merged configuration.

Examples:
  # Show the build for a single package with extra test arguments
  cargocov plan -p core -- --nocapture

  # Use the [ci] table of cargocov.toml
  cargocov plan --run ci`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.resolve(cmd, args)
			if err != nil {
				return err
			}

			plan, err := process.FromCargoConfig(resolved.Config)
			if err != nil {
				return fmt.Errorf("failed to build cargo command: %w", err)
			}
			if err := plan.IsValid(); err != nil {
				return fmt.Errorf("invalid cargo command: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), plan.String())
			return nil
		},
	}
}
