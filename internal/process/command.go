package process

import (
	"fmt"
	"slices"
	"strings"

	"cargocov.dev/cli/internal/core/domain/cargo"
)

// CargoExecutable is the build tool every plan invokes
const CargoExecutable = "cargo"

// Command is the build invocation derived from an effective configuration
type Command struct {
	executable string
	args       []string
}

// NewCommand creates a new Command value object
func NewCommand(executable string, args []string) (Command, error) {
	if executable == "" {
		return Command{}, fmt.Errorf("executable cannot be empty")
	}

	return Command{
		executable: executable,
		args:       slices.Clone(args),
	}, nil
}

// FromCargoConfig builds the cargo invocation for cfg
func FromCargoConfig(cfg *cargo.CargoConfig) (Command, error) {
	if cfg == nil {
		return Command{}, fmt.Errorf("configuration is nil")
	}
	return NewCommand(CargoExecutable, cfg.Args())
}

func (c Command) Executable() string {
	return c.executable
}

// Args returns a copy of the command arguments
func (c Command) Args() []string {
	return slices.Clone(c.args)
}

// String renders the command line, quoting arguments the shell would split
func (c Command) String() string {
	parts := make([]string, 0, len(c.args)+1)
	for _, arg := range c.FullCommandLine() {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

// FullCommandLine returns the complete command line including executable and args
func (c Command) FullCommandLine() []string {
	result := make([]string, 0, len(c.args)+1)
	result = append(result, c.executable)
	result = append(result, c.args...)
	return result
}

// IsValid checks that a cargo invocation starts with a supported subcommand
func (c Command) IsValid() error {
	if c.executable == "" {
		return fmt.Errorf("executable cannot be empty")
	}
	if c.executable != CargoExecutable {
		return nil
	}

	if len(c.args) == 0 {
		return fmt.Errorf("cargo subcommand is missing")
	}
	if _, err := cargo.ParseMode(c.args[0]); err != nil {
		return err
	}

	return nil
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
