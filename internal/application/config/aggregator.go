package appconfig

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"cargocov.dev/cli/internal/core/domain/cargo"
	configdomain "cargocov.dev/cli/internal/core/domain/config"
	configports "cargocov.dev/cli/internal/core/ports/config"
)

// Resolved is the effective configuration plus the layers it was built from,
// ordered from highest to lowest precedence.
type Resolved struct {
	Config *cargo.CargoConfig
	Layers configdomain.Layers
}

// Aggregator folds loader layers into one effective configuration.
type Aggregator struct {
	loaders   []configports.Loader
	validator configports.Validator
	logger    hclog.Logger
}

func NewAggregator(logger hclog.Logger, loaders ...configports.Loader) *Aggregator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Aggregator{loaders: loaders, logger: logger}
}

// WithValidator makes Resolve reject an effective config the validator refuses
func (a *Aggregator) WithValidator(v configports.Validator) *Aggregator {
	a.validator = v
	return a
}

// Resolve collects every layer, orders them by priority and merges each
// lower-precedence layer into the highest one. cli may be nil. The returned
// layers end with the built-in defaults.
func (a *Aggregator) Resolve(ctx context.Context, cli *configdomain.Layer) (*Resolved, error) {
	var layers configdomain.Layers
	if cli != nil {
		layers = append(layers, *cli)
	}

	for _, l := range a.loaders {
		loaded, err := l.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s loader: %w", l.Name(), err)
		}
		layers = append(layers, loaded...)
	}

	// defaults sit below every source so a lone layer is still normalized
	layers = append(layers, configdomain.Layer{
		Name:     configdomain.SourceDefault,
		Source:   configdomain.SourceDefault,
		Priority: configdomain.PriorityDefault,
		Config:   cargo.DefaultCargoConfig(),
	})
	layers.SortByPriority()

	effective := layers[0].Config.Clone()
	for _, layer := range layers[1:] {
		a.logger.Debug("merging config layer", "layer", layer.Name, "source", layer.Source, "path", layer.SourcePath)
		effective.Merge(layer.Config, a.logger.With("layer", layer.Name))
	}
	// Merge never touches the subcommand; take it from the layer that chose it
	effective.Command = layers.Command()

	if a.validator != nil {
		if err := a.validator.Validate(effective); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	return &Resolved{Config: effective, Layers: layers}, nil
}
