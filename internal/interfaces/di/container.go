package di

import (
	"context"
	"io"

	"github.com/hashicorp/go-hclog"

	appconfig "cargocov.dev/cli/internal/application/config"
	configdomain "cargocov.dev/cli/internal/core/domain/config"
	configinfra "cargocov.dev/cli/internal/infrastructure/config"
	"cargocov.dev/cli/internal/logging"
)

// Options are the global settings needed before any layer can be loaded
type Options struct {
	ConfigPath string
	ConfigDir  string
	Run        string
	Debug      bool
	LogOutput  io.Writer
}

// Container holds all application dependencies
type Container struct {
	Logger     hclog.Logger
	FileLoader *configinfra.FileLoader
	EnvLoader  *configinfra.EnvLoader
	Validator  *configinfra.ConfigValidator
	Aggregator *appconfig.Aggregator
}

// NewContainer wires loaders, validation and merging for one invocation
func NewContainer(opts Options) *Container {
	logger := logging.New(opts.Debug, opts.LogOutput)

	c := &Container{
		Logger: logger,
		FileLoader: configinfra.NewFileLoader(configinfra.FileLoaderOptions{
			Path:   opts.ConfigPath,
			Dir:    opts.ConfigDir,
			Run:    opts.Run,
			Logger: logger.Named("file"),
		}),
		EnvLoader: configinfra.NewEnvLoader(),
		Validator: configinfra.NewConfigValidator(),
	}
	c.Aggregator = appconfig.NewAggregator(logger, c.EnvLoader, c.FileLoader).WithValidator(c.Validator)

	logger.Debug("container initialized", "config", opts.ConfigPath, "run", opts.Run)
	return c
}

// Resolve produces the effective configuration with cli as the top layer
func (c *Container) Resolve(ctx context.Context, cli *configdomain.Layer) (*appconfig.Resolved, error) {
	return c.Aggregator.Resolve(ctx, cli)
}
