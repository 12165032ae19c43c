package di

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargocov.dev/cli/internal/core/domain/cargo"
	configdomain "cargocov.dev/cli/internal/core/domain/config"
)

func TestContainer_ResolvesFileAndCLI(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cargocov.toml"), []byte(`
packages = ["core", "bench"]
exclude = ["bench"]
features = "file"
`), 0o644))

	var logs bytes.Buffer
	container := NewContainer(Options{ConfigDir: dir, LogOutput: &logs})

	features := "cli"
	cliCfg := cargo.DefaultCargoConfig()
	cliCfg.Features = &features
	cliLayer := &configdomain.Layer{Name: "cli", Source: configdomain.SourceCLI, Priority: configdomain.PriorityCLI, Config: cliCfg}

	resolved, err := container.Resolve(context.Background(), cliLayer)
	require.NoError(t, err)

	assert.Equal(t, "cli file", *resolved.Config.Features)
	assert.Equal(t, []string{"core"}, resolved.Config.Packages)
	assert.Contains(t, logs.String(), "package=bench")
}

func TestContainer_ValidationFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cargocov.toml"), []byte("jobs = 0\n"), 0o644))

	container := NewContainer(Options{ConfigDir: dir, LogOutput: &bytes.Buffer{}})

	_, err := container.Resolve(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs must be greater than 0")
}
