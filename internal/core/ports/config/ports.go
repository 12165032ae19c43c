package configports

import (
	"context"

	"cargocov.dev/cli/internal/core/domain/cargo"
	configdomain "cargocov.dev/cli/internal/core/domain/config"
)

// Loader reads zero or more configuration layers from one kind of source.
type Loader interface {
	Load(ctx context.Context) (configdomain.Layers, error)
	Name() string
}

type Validator interface {
	Validate(cfg *cargo.CargoConfig) error
}
