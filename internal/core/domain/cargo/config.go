package cargo

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// CargoConfig holds the cargo options for one configuration layer.
// Optional scalars are nil when the layer does not set them.
type CargoConfig struct {
	// Don't update Cargo.lock
	Locked bool `toml:"locked" yaml:"locked" json:"locked"`
	// Don't update Cargo.lock or any caches
	Frozen bool `toml:"frozen" yaml:"frozen" json:"frozen"`
	// Build with the given profile
	Profile *string `toml:"profile,omitempty" yaml:"profile,omitempty" json:"profile,omitempty"`
	// Number of jobs used for building the tests
	Jobs *int `toml:"jobs,omitempty" yaml:"jobs,omitempty" json:"jobs,omitempty"`
	AllFeatures       bool `toml:"all-features" yaml:"all-features" json:"all-features"`
	NoDefaultFeatures bool `toml:"no-default-features" yaml:"no-default-features" json:"no-default-features"`
	// Space separated features, e.g. "feature1 feature2"
	Features *string `toml:"features,omitempty" yaml:"features,omitempty" json:"features,omitempty"`
	// Build all packages in the workspace
	All     bool `toml:"all" yaml:"all" json:"all"`
	Release bool `toml:"release" yaml:"release" json:"release"`
	// Packages to include when building the target project
	Packages []string `toml:"packages" yaml:"packages" json:"packages"`
	// Packages to exclude from testing
	Exclude []string `toml:"exclude" yaml:"exclude" json:"exclude"`
	// Target triple
	Target  *string `toml:"target,omitempty" yaml:"target,omitempty" json:"target,omitempty"`
	Offline bool    `toml:"offline" yaml:"offline" json:"offline"`
	// Unstable cargo features passed with -Z
	UnstableFeatures []string `toml:"Z" yaml:"Z" json:"Z"`
	Command          Mode     `toml:"command" yaml:"command" json:"command"`
	// Arguments forwarded to the test executables
	Varargs []string `toml:"args" yaml:"args" json:"args"`
}

// DefaultCargoConfig returns a configuration with every field at its default
func DefaultCargoConfig() *CargoConfig {
	return &CargoConfig{
		Command:          ModeTest,
		Packages:         []string{},
		Exclude:          []string{},
		UnstableFeatures: []string{},
		Varargs:          []string{},
	}
}

// PickOptional returns primary when it is set, otherwise secondary
func PickOptional[T any](primary, secondary *T) *T {
	if primary != nil {
		return primary
	}
	return secondary
}

// Merge folds other into c. Boolean flags are OR'd, optional scalars keep
// c's value when set, features are concatenated and list fields gain the
// elements of other they do not already contain. Packages that end up in
// the exclude list are dropped and logged. Command is never changed.
func (c *CargoConfig) Merge(other *CargoConfig, logger hclog.Logger) {
	if other == nil {
		return
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	c.NoDefaultFeatures = c.NoDefaultFeatures || other.NoDefaultFeatures
	c.Release = c.Release || other.Release
	c.AllFeatures = c.AllFeatures || other.AllFeatures
	c.Offline = c.Offline || other.Offline
	c.All = c.All || other.All
	c.Frozen = c.Frozen || other.Frozen
	c.Locked = c.Locked || other.Locked

	c.Target = clonePtr(PickOptional(c.Target, other.Target))
	c.Jobs = clonePtr(PickOptional(c.Jobs, other.Jobs))
	c.Profile = clonePtr(PickOptional(c.Profile, other.Profile))

	if other.Features != nil {
		if c.Features == nil {
			c.Features = clonePtr(other.Features)
		} else {
			joined := *c.Features + " " + *other.Features
			c.Features = &joined
		}
	}

	c.Packages = appendMissing(c.Packages, other.Packages)
	c.Exclude = appendMissing(c.Exclude, other.Exclude)
	c.Varargs = appendMissing(c.Varargs, other.Varargs)
	c.UnstableFeatures = appendMissing(c.UnstableFeatures, other.UnstableFeatures)

	c.Packages = slices.DeleteFunc(c.Packages, func(pkg string) bool {
		if !slices.Contains(c.Exclude, pkg) {
			return false
		}
		logger.Info("package is in exclude list, removing from packages", "package", pkg)
		return true
	})
}

// Clone returns a deep copy of c
func (c *CargoConfig) Clone() *CargoConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Profile = clonePtr(c.Profile)
	out.Jobs = clonePtr(c.Jobs)
	out.Features = clonePtr(c.Features)
	out.Target = clonePtr(c.Target)
	out.Packages = slices.Clone(c.Packages)
	out.Exclude = slices.Clone(c.Exclude)
	out.UnstableFeatures = slices.Clone(c.UnstableFeatures)
	out.Varargs = slices.Clone(c.Varargs)
	return &out
}

// FeatureList splits the features string into individual feature names
func (c *CargoConfig) FeatureList() []string {
	if c.Features == nil {
		return nil
	}
	return strings.Fields(*c.Features)
}

// Validate performs domain-level validation on the configuration
func (c *CargoConfig) Validate() error {
	var errs []error

	if c.Jobs != nil && *c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be greater than 0, got %d", *c.Jobs))
	}
	if !c.Command.IsValid() {
		errs = append(errs, fmt.Errorf("invalid command: %s", c.Command))
	}

	return errors.Join(errs...)
}

// appendMissing appends the elements of extra that base did not contain
// before the call, in extra's order.
func appendMissing(base, extra []string) []string {
	var missing []string
	for _, item := range extra {
		if !slices.Contains(base, item) {
			missing = append(missing, item)
		}
	}
	return append(base, missing...)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
