package configinfra

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cargocov.dev/cli/internal/core/domain/cargo"
	configdomain "cargocov.dev/cli/internal/core/domain/config"
	configports "cargocov.dev/cli/internal/core/ports/config"
)

// EnvPrefix is prepended to every environment variable the loader reads
const EnvPrefix = "CARGOCOV_"

type EnvLoader struct {
	lookup func(string) string
}

func NewEnvLoader() *EnvLoader { return &EnvLoader{lookup: os.Getenv} }

func (l *EnvLoader) Name() string { return "env" }

// Load builds a layer from CARGOCOV_* environment variables (priority 2).
// No layer is returned when none of them is set.
func (l *EnvLoader) Load(ctx context.Context) (configdomain.Layers, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := cargo.DefaultCargoConfig()
	var (
		used       []string
		errs       []error
		commandSet bool
	)

	get := func(name string) (string, bool) {
		key := EnvPrefix + name
		v := strings.TrimSpace(l.lookup(key))
		if v == "" {
			return "", false
		}
		used = append(used, key)
		return v, true
	}
	boolVar := func(name string, dst *bool) {
		if v, ok := get(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	stringVar := func(name string, dst **string) {
		if v, ok := get(name); ok {
			*dst = &v
		}
	}
	listVar := func(name string, dst *[]string) {
		if v, ok := get(name); ok {
			*dst = splitList(v)
		}
	}

	boolVar("LOCKED", &cfg.Locked)
	boolVar("FROZEN", &cfg.Frozen)
	boolVar("OFFLINE", &cfg.Offline)
	boolVar("RELEASE", &cfg.Release)
	boolVar("ALL_FEATURES", &cfg.AllFeatures)
	boolVar("NO_DEFAULT_FEATURES", &cfg.NoDefaultFeatures)
	boolVar("WORKSPACE", &cfg.All)
	stringVar("PROFILE", &cfg.Profile)
	stringVar("TARGET", &cfg.Target)
	stringVar("FEATURES", &cfg.Features)
	listVar("PACKAGES", &cfg.Packages)
	listVar("EXCLUDE", &cfg.Exclude)
	listVar("Z", &cfg.UnstableFeatures)
	listVar("ARGS", &cfg.Varargs)

	if v, ok := get("JOBS"); ok {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sJOBS: %w", EnvPrefix, err))
		} else {
			cfg.Jobs = &jobs
		}
	}
	if v, ok := get("COMMAND"); ok {
		mode, err := cargo.ParseMode(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCOMMAND: %w", EnvPrefix, err))
		} else {
			cfg.Command = mode
			commandSet = true
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if len(used) == 0 {
		return nil, nil
	}

	return configdomain.Layers{{
		Name:       "env",
		Source:     configdomain.SourceEnv,
		SourcePath: strings.Join(used, ","),
		Priority:   configdomain.PriorityEnv,
		Config:     cfg,
		CommandSet: commandSet,
	}}, nil
}

// splitList splits a comma separated value, dropping empty items
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

var _ configports.Loader = (*EnvLoader)(nil)
