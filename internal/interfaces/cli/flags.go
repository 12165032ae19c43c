package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cargocov.dev/cli/internal/core/domain/cargo"
	configdomain "cargocov.dev/cli/internal/core/domain/config"
)

// cargoFlags holds the raw values of the cargo option flags
type cargoFlags struct {
	locked            bool
	frozen            bool
	offline           bool
	release           bool
	allFeatures       bool
	noDefaultFeatures bool
	all               bool
	workspace         bool
	profile           string
	target            string
	features          string
	jobs              int
	packages          []string
	exclude           []string
	unstable          []string
	command           cargo.Mode
}

// bind registers the cargo option flags on fs
func (f *cargoFlags) bind(fs *pflag.FlagSet) {
	fs.BoolVar(&f.locked, "locked", false, "Don't update Cargo.lock")
	fs.BoolVar(&f.frozen, "frozen", false, "Don't update Cargo.lock or any caches")
	fs.BoolVar(&f.offline, "offline", false, "Run without accessing the network")
	fs.BoolVar(&f.release, "release", false, "Build in release mode")
	fs.BoolVar(&f.allFeatures, "all-features", false, "Build with all available features")
	fs.BoolVar(&f.noDefaultFeatures, "no-default-features", false, "Do not include default features")
	fs.BoolVar(&f.all, "all", false, "Build all packages in the workspace")
	fs.BoolVar(&f.workspace, "workspace", false, "Alias for --all")
	fs.StringVar(&f.profile, "profile", "", "Build with the given profile")
	fs.StringVar(&f.target, "target", "", "Compilation target triple")
	fs.StringVar(&f.features, "features", "", `Space separated features to build, e.g. "feature1 feature2"`)
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "Number of parallel build jobs")
	fs.StringSliceVarP(&f.packages, "packages", "p", nil, "Packages to build (repeatable)")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "Packages to exclude (repeatable)")
	fs.StringArrayVarP(&f.unstable, "unstable-features", "Z", nil, "Unstable cargo features (repeatable)")
	fs.Var(&f.command, "command", "Cargo subcommand to run: test or build")
}

// layer converts the flags the user actually set into the CLI layer.
// Flags left at their defaults do not contribute, so lower layers can
// still fill those fields.
func (f *cargoFlags) layer(cmd *cobra.Command, args []string) (*configdomain.Layer, error) {
	fs := cmd.Flags()
	cfg := cargo.DefaultCargoConfig()

	cfg.Locked = f.locked
	cfg.Frozen = f.frozen
	cfg.Offline = f.offline
	cfg.Release = f.release
	cfg.AllFeatures = f.allFeatures
	cfg.NoDefaultFeatures = f.noDefaultFeatures
	cfg.All = f.all || f.workspace
	cfg.Command = f.command

	if fs.Changed("profile") {
		cfg.Profile = ptr(f.profile)
	}
	if fs.Changed("target") {
		cfg.Target = ptr(f.target)
	}
	if fs.Changed("features") {
		cfg.Features = ptr(f.features)
	}
	if fs.Changed("jobs") {
		if f.jobs < 1 {
			return nil, fmt.Errorf("--jobs must be greater than 0, got %d", f.jobs)
		}
		cfg.Jobs = ptr(f.jobs)
	}

	cfg.Packages = append(cfg.Packages, f.packages...)
	cfg.Exclude = append(cfg.Exclude, f.exclude...)
	cfg.UnstableFeatures = append(cfg.UnstableFeatures, f.unstable...)

	varargs, err := forwardedArgs(cmd, args)
	if err != nil {
		return nil, err
	}
	cfg.Varargs = append(cfg.Varargs, varargs...)

	return &configdomain.Layer{
		Name:       "cli",
		Source:     configdomain.SourceCLI,
		SourcePath: "command_line_flag",
		Priority:   configdomain.PriorityCLI,
		Config:     cfg,
		CommandSet: fs.Changed("command"),
	}, nil
}

// forwardedArgs returns the arguments after "--"; anything positional
// before it is rejected
func forwardedArgs(cmd *cobra.Command, args []string) ([]string, error) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		if len(args) > 0 {
			return nil, fmt.Errorf("unexpected argument: %s (forward test arguments after --)", args[0])
		}
		return nil, nil
	}
	if dash > 0 {
		return nil, fmt.Errorf("unexpected argument: %s (forward test arguments after --)", args[0])
	}
	return args[dash:], nil
}

func ptr[T any](v T) *T {
	return &v
}
