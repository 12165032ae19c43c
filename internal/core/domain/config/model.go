package configdomain

import (
	"sort"

	"cargocov.dev/cli/internal/core/domain/cargo"
)

// Source names the kind of place a layer was read from
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Priorities, lower number indicates higher precedence.
const (
	PriorityCLI     = 1
	PriorityEnv     = 2
	PriorityFile    = 3
	PriorityDefault = 100
)

// Layer is one configuration source together with its provenance.
type Layer struct {
	Name       string
	Source     string
	SourcePath string
	Priority   int
	Config     *cargo.CargoConfig
	// CommandSet is true when the source named the cargo subcommand
	// explicitly rather than carrying the default
	CommandSet bool
}

// Layers is a set of layers that can be ordered by precedence.
type Layers []Layer

// SortByPriority orders the layers from highest to lowest precedence.
// Layers with equal priority keep their relative order.
func (l Layers) SortByPriority() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Priority < l[j].Priority
	})
}

// Command returns the subcommand of the highest-precedence layer that set
// one explicitly, or the first layer's subcommand when none did. The layers
// must already be sorted.
func (l Layers) Command() cargo.Mode {
	for _, layer := range l {
		if layer.CommandSet {
			return layer.Config.Command
		}
	}
	if len(l) == 0 {
		return cargo.ModeTest
	}
	return l[0].Config.Command
}
