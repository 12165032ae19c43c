package cargo

import (
	"strconv"
	"strings"
)

// Args renders the cargo argument vector for this configuration, starting
// with the subcommand. Forwarded arguments follow a "--" separator.
func (c *CargoConfig) Args() []string {
	args := []string{c.Command.String()}

	if c.Locked {
		args = append(args, "--locked")
	}
	if c.Frozen {
		args = append(args, "--frozen")
	}
	if c.Offline {
		args = append(args, "--offline")
	}
	if c.Release {
		args = append(args, "--release")
	}
	if c.Profile != nil {
		args = append(args, "--profile", *c.Profile)
	}
	if c.Jobs != nil {
		args = append(args, "--jobs", strconv.Itoa(*c.Jobs))
	}
	if c.Target != nil {
		args = append(args, "--target", *c.Target)
	}
	if c.AllFeatures {
		args = append(args, "--all-features")
	}
	if c.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if features := c.FeatureList(); len(features) > 0 {
		args = append(args, "--features", strings.Join(features, " "))
	}
	if c.All {
		args = append(args, "--workspace")
	}
	for _, pkg := range c.Packages {
		args = append(args, "-p", pkg)
	}
	// cargo only accepts --exclude together with --workspace
	if c.All {
		for _, pkg := range c.Exclude {
			args = append(args, "--exclude", pkg)
		}
	}
	for _, feature := range c.UnstableFeatures {
		args = append(args, "-Z", feature)
	}

	if len(c.Varargs) > 0 {
		args = append(args, "--")
		args = append(args, c.Varargs...)
	}

	return args
}
