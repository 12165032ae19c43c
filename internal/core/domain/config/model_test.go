package configdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cargocov.dev/cli/internal/core/domain/cargo"
)

func TestLayers_SortByPriority(t *testing.T) {
	layers := Layers{
		{Name: "file-a", Source: SourceFile, Priority: PriorityFile},
		{Name: "cli", Source: SourceCLI, Priority: PriorityCLI},
		{Name: "file-b", Source: SourceFile, Priority: PriorityFile},
		{Name: "env", Source: SourceEnv, Priority: PriorityEnv},
	}

	layers.SortByPriority()

	var names []string
	for _, l := range layers {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"cli", "env", "file-a", "file-b"}, names)
}

func TestLayers_Command(t *testing.T) {
	withMode := func(m cargo.Mode, set bool) Layer {
		cfg := cargo.DefaultCargoConfig()
		cfg.Command = m
		return Layer{Config: cfg, CommandSet: set}
	}

	assert.Equal(t, cargo.ModeTest, Layers{}.Command())
	assert.Equal(t, cargo.ModeBuild, Layers{withMode(cargo.ModeBuild, false), withMode(cargo.ModeTest, false)}.Command())
	assert.Equal(t, cargo.ModeBuild, Layers{withMode(cargo.ModeTest, false), withMode(cargo.ModeBuild, true)}.Command())
	assert.Equal(t, cargo.ModeTest, Layers{withMode(cargo.ModeTest, true), withMode(cargo.ModeBuild, true)}.Command())
}
