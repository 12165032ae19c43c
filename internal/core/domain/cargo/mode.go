package cargo

import (
	"fmt"
	"strings"
)

// Mode is the cargo subcommand used to build the instrumented targets
type Mode int

const (
	// ModeTest runs `cargo test`
	ModeTest Mode = iota
	// ModeBuild runs `cargo build`
	ModeBuild
)

// ParseMode converts a textual subcommand name into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "test":
		return ModeTest, nil
	case "build":
		return ModeBuild, nil
	default:
		return ModeTest, fmt.Errorf("unsupported cargo command: %q (must be test or build)", s)
	}
}

// String returns the cargo subcommand name
func (m Mode) String() string {
	switch m {
	case ModeTest:
		return "test"
	case ModeBuild:
		return "build"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// IsValid reports whether m is a known subcommand
func (m Mode) IsValid() bool {
	return m == ModeTest || m == ModeBuild
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("cannot marshal unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Set implements pflag.Value
func (m *Mode) Set(s string) error {
	return m.UnmarshalText([]byte(s))
}

// Type implements pflag.Value
func (m *Mode) Type() string {
	return "command"
}
