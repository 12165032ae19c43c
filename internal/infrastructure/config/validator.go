package configinfra

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cargocov.dev/cli/internal/core/domain/cargo"
	configports "cargocov.dev/cli/internal/core/ports/config"
)

// ConfigValidator validates an effective cargo configuration
type ConfigValidator struct {
	targetPattern *regexp.Regexp
}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		// arch-vendor-os[-env], e.g. x86_64-unknown-linux-gnu, wasm32-wasi
		targetPattern: regexp.MustCompile(`^[A-Za-z0-9_.]+(-[A-Za-z0-9_.]+){1,3}$`),
	}
}

// Validate collects every problem in cfg into one error
func (v *ConfigValidator) Validate(cfg *cargo.CargoConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	errs := []error{cfg.Validate()}

	if cfg.Target != nil {
		errs = append(errs, v.ValidateTarget(*cfg.Target))
	}
	if cfg.Profile != nil && strings.TrimSpace(*cfg.Profile) == "" {
		errs = append(errs, fmt.Errorf("profile cannot be empty"))
	}
	errs = append(errs, validateNames("package", cfg.Packages))
	errs = append(errs, validateNames("excluded package", cfg.Exclude))
	errs = append(errs, validateNames("feature", cfg.FeatureList()))
	errs = append(errs, validateNames("unstable feature", cfg.UnstableFeatures))

	return errors.Join(errs...)
}

// ValidateTarget validates a target triple
func (v *ConfigValidator) ValidateTarget(target string) error {
	if target == "" {
		return fmt.Errorf("target cannot be empty")
	}
	if !v.targetPattern.MatchString(target) {
		return fmt.Errorf("invalid target triple: %s", target)
	}
	return nil
}

func validateNames(kind string, names []string) error {
	var errs []error
	for _, name := range names {
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("%s name cannot be empty", kind))
		case strings.ContainsAny(name, " \t\r\n"):
			errs = append(errs, fmt.Errorf("%s name cannot contain whitespace: %q", kind, name))
		}
	}
	return errors.Join(errs...)
}

var _ configports.Validator = (*ConfigValidator)(nil)
