package configinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cargocov.dev/cli/internal/core/domain/cargo"
	configdomain "cargocov.dev/cli/internal/core/domain/config"
	configports "cargocov.dev/cli/internal/core/ports/config"
)

var (
	// ErrAliasConflict is returned when both spellings of an aliased key
	// are present with different values
	ErrAliasConflict = errors.New("conflicting values for aliased keys")
	// ErrUnknownRun is returned when the requested run table is not in the file
	ErrUnknownRun = errors.New("run not found in config file")
)

// DefaultConfigFiles are searched in order when no explicit path is given
var DefaultConfigFiles = []string{
	"cargocov.toml",
	".cargocov.toml",
	"cargocov.yaml",
	"cargocov.yml",
	"cargocov.json",
}

type format struct {
	name      string
	unmarshal func([]byte, any) error
	marshal   func(any) ([]byte, error)
}

var formats = map[string]format{
	".toml": {name: "toml", unmarshal: toml.Unmarshal, marshal: toml.Marshal},
	".yaml": {name: "yaml", unmarshal: yaml.Unmarshal, marshal: yaml.Marshal},
	".yml":  {name: "yaml", unmarshal: yaml.Unmarshal, marshal: yaml.Marshal},
	".json": {name: "json", unmarshal: json.Unmarshal, marshal: json.Marshal},
}

// FileLoaderOptions controls where the file loader looks
type FileLoaderOptions struct {
	// Path is an explicit config file; discovery is skipped when set
	Path string
	// Dir is searched for DefaultConfigFiles (default: working directory)
	Dir string
	// Run selects a named table; empty selects the top level
	Run    string
	Logger hclog.Logger
}

// FileLoader reads cargo options from a TOML, YAML or JSON config file.
// A missing file yields no layers; a file that exists but does not parse is
// an error.
type FileLoader struct {
	opts FileLoaderOptions
}

func NewFileLoader(opts FileLoaderOptions) *FileLoader {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &FileLoader{opts: opts}
}

func (l *FileLoader) Name() string { return "file" }

func (l *FileLoader) Load(ctx context.Context) (configdomain.Layers, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := l.resolvePath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		l.opts.Logger.Debug("no config file found", "dir", l.opts.Dir)
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, commandSet, err := l.decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	l.opts.Logger.Debug("loaded config file", "path", path, "run", l.opts.Run)

	name := "file"
	if l.opts.Run != "" {
		name = "file:" + l.opts.Run
	}
	return configdomain.Layers{{
		Name:       name,
		Source:     configdomain.SourceFile,
		SourcePath: path,
		Priority:   configdomain.PriorityFile,
		Config:     cfg,
		CommandSet: commandSet,
	}}, nil
}

// resolvePath returns the file to read, or "" when discovery found nothing
func (l *FileLoader) resolvePath() (string, error) {
	if l.opts.Path != "" {
		if _, err := os.Stat(l.opts.Path); err != nil {
			return "", fmt.Errorf("config file %s: %w", l.opts.Path, err)
		}
		return l.opts.Path, nil
	}

	dir := l.opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		dir = wd
	}

	for _, name := range DefaultConfigFiles {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", nil
}

func (l *FileLoader) decode(path string, data []byte) (*cargo.CargoConfig, bool, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := formats[ext]
	if !ok {
		return nil, false, fmt.Errorf("unsupported config file extension %q", ext)
	}

	section := data
	if l.opts.Run != "" {
		var err error
		section, err = extractRun(f, data, l.opts.Run)
		if err != nil {
			return nil, false, err
		}
	}

	var raw rawConfig
	if err := f.unmarshal(section, &raw); err != nil {
		return nil, false, fmt.Errorf("invalid %s: %w", f.name, err)
	}
	cfg, err := raw.toCargoConfig()
	return cfg, raw.Command != nil, err
}

// extractRun re-encodes the named table so it can be decoded on its own
func extractRun(f format, data []byte, run string) ([]byte, error) {
	var doc map[string]any
	if err := f.unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", f.name, err)
	}

	table, ok := doc[run].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, run)
	}
	return f.marshal(table)
}

// rawConfig mirrors cargo.CargoConfig with both spellings of aliased keys
type rawConfig struct {
	Locked            bool        `toml:"locked" yaml:"locked" json:"locked"`
	Frozen            bool        `toml:"frozen" yaml:"frozen" json:"frozen"`
	Profile           *string     `toml:"profile" yaml:"profile" json:"profile"`
	Jobs              *int        `toml:"jobs" yaml:"jobs" json:"jobs"`
	AllFeatures       bool        `toml:"all-features" yaml:"all-features" json:"all-features"`
	NoDefaultFeatures bool        `toml:"no-default-features" yaml:"no-default-features" json:"no-default-features"`
	Features          *string     `toml:"features" yaml:"features" json:"features"`
	All               *bool       `toml:"all" yaml:"all" json:"all"`
	Workspace         *bool       `toml:"workspace" yaml:"workspace" json:"workspace"`
	Release           bool        `toml:"release" yaml:"release" json:"release"`
	Packages          []string    `toml:"packages" yaml:"packages" json:"packages"`
	Exclude           []string    `toml:"exclude" yaml:"exclude" json:"exclude"`
	Target            *string     `toml:"target" yaml:"target" json:"target"`
	Offline           bool        `toml:"offline" yaml:"offline" json:"offline"`
	Z                 []string    `toml:"Z" yaml:"Z" json:"Z"`
	UnstableFeatures  []string    `toml:"unstable-features" yaml:"unstable-features" json:"unstable-features"`
	Command           *cargo.Mode `toml:"command" yaml:"command" json:"command"`
	Args              []string    `toml:"args" yaml:"args" json:"args"`
}

func (r *rawConfig) toCargoConfig() (*cargo.CargoConfig, error) {
	cfg := cargo.DefaultCargoConfig()

	cfg.Locked = r.Locked
	cfg.Frozen = r.Frozen
	cfg.Profile = r.Profile
	cfg.Jobs = r.Jobs
	cfg.AllFeatures = r.AllFeatures
	cfg.NoDefaultFeatures = r.NoDefaultFeatures
	cfg.Features = r.Features
	cfg.Release = r.Release
	cfg.Target = r.Target
	cfg.Offline = r.Offline

	switch {
	case r.All != nil && r.Workspace != nil && *r.All != *r.Workspace:
		return nil, fmt.Errorf("%w: all=%t, workspace=%t", ErrAliasConflict, *r.All, *r.Workspace)
	case r.All != nil:
		cfg.All = *r.All
	case r.Workspace != nil:
		cfg.All = *r.Workspace
	}

	if r.Command != nil {
		cfg.Command = *r.Command
	}

	cfg.Packages = append(cfg.Packages, r.Packages...)
	cfg.Exclude = append(cfg.Exclude, r.Exclude...)
	cfg.Varargs = append(cfg.Varargs, r.Args...)
	cfg.UnstableFeatures = append(cfg.UnstableFeatures, r.Z...)
	for _, feature := range r.UnstableFeatures {
		if !slices.Contains(cfg.UnstableFeatures, feature) {
			cfg.UnstableFeatures = append(cfg.UnstableFeatures, feature)
		}
	}

	return cfg, nil
}

var _ configports.Loader = (*FileLoader)(nil)
