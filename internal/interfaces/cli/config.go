package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cargocov.dev/cli/internal/core/domain/cargo"
	configdomain "cargocov.dev/cli/internal/core/domain/config"
)

// newConfigCommand creates the config command
func newConfigCommand(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
		Long: `Inspect the configuration cargocov resolves from flags, the environment
and the config file.

Cargo flags given on the command line take part in the merge, so
"cargocov config show --release" shows the configuration a release run
would use.`,
	}

	configCmd.AddCommand(newConfigShowCommand(a))
	configCmd.AddCommand(newConfigSourcesCommand(a))

	return configCmd
}

// newConfigShowCommand creates the show subcommand
func newConfigShowCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [flags] [-- test-args...]",
		Short: "Show the merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.resolve(cmd, args)
			if err != nil {
				return err
			}
			return renderConfig(cmd.OutOrStdout(), resolved.Config, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "toml", "Output format: toml, yaml or json")

	return cmd
}

// newConfigSourcesCommand creates the sources subcommand
func newConfigSourcesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the configuration layers in precedence order",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.resolve(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSources(resolved.Layers))
			return nil
		},
	}
}

func renderConfig(w io.Writer, cfg *cargo.CargoConfig, format string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "toml":
		data, err = toml.Marshal(cfg)
	case "yaml", "yml":
		data, err = yaml.Marshal(cfg)
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported output format: %s (must be toml, yaml or json)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration as %s: %w", format, err)
	}

	_, err = w.Write(data)
	return err
}

func renderSources(layers configdomain.Layers) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("LAYER", "SOURCE", "PATH", "PRIORITY").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, l := range layers {
		path := l.SourcePath
		if path == "" {
			path = "-"
		}
		t.Row(l.Name, l.Source, path, strconv.Itoa(l.Priority))
	}

	return t.String()
}
