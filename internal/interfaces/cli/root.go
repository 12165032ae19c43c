package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	appconfig "cargocov.dev/cli/internal/application/config"
	"cargocov.dev/cli/internal/interfaces/di"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// app carries global flag values and the container built from them
type app struct {
	cargo      cargoFlags
	configPath string
	configDir  string
	run        string
	debug      bool

	container *di.Container
}

// NewRootCommand RootCommand represents the base command when called without any subcommands
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cargocov",
		Short: "cargocov - coverage runs for cargo projects",
		Long: `cargocov collects the cargo options for a coverage run from the command
line, CARGOCOV_* environment variables and a cargocov.toml/yaml/json file,
and merges them into one effective configuration.

Command line flags take precedence over the environment, which takes
precedence over the config file. Switches are combined, lists are joined
and the first layer that sets a value wins.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.container = di.NewContainer(di.Options{
				ConfigPath: a.configPath,
				ConfigDir:  a.configDir,
				Run:        a.run,
				Debug:      a.debug,
				LogOutput:  cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file path (default: cargocov.toml in the working directory)")
	rootCmd.PersistentFlags().StringVarP(&a.configDir, "dir", "C", "", "Directory searched for cargocov config files (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&a.run, "run", "", "Named run table to read from the config file")
	a.cargo.bind(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newConfigCommand(a))
	rootCmd.AddCommand(newPlanCommand(a))

	return rootCmd
}

// resolve merges the CLI layer for this invocation with every other source
func (a *app) resolve(cmd *cobra.Command, args []string) (*appconfig.Resolved, error) {
	layer, err := a.cargo.layer(cmd, args)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resolved, err := a.container.Resolve(ctx, layer)
	if err != nil {
		a.container.Logger.Debug("configuration resolution failed", "command", cmd.CommandPath(), "error", err)
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	a.container.Logger.Debug("configuration resolved", "command", cmd.CommandPath(), "layers", len(resolved.Layers))
	return resolved, nil
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	rootCmd := NewRootCommand()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
