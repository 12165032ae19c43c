package configinfra

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargocov.dev/cli/internal/core/domain/cargo"
	configdomain "cargocov.dev/cli/internal/core/domain/config"
)

const tomlFixture = `
features = "f1 f2"
workspace = true
jobs = 4
target = "x86_64-unknown-linux-gnu"
packages = ["core", "cli"]
exclude = ["bench"]
Z = ["build-std"]
args = ["--nocapture"]
command = "build"
release = true

[report]
profile = "coverage"
locked = true
unstable-features = ["unstable-options"]
`

const yamlFixture = `
features: f1 f2
workspace: true
jobs: 4
target: x86_64-unknown-linux-gnu
packages: [core, cli]
exclude: [bench]
Z: [build-std]
args: [--nocapture]
command: build
release: true
report:
  profile: coverage
  locked: true
  unstable-features: [unstable-options]
`

const jsonFixture = `{
  "features": "f1 f2",
  "workspace": true,
  "jobs": 4,
  "target": "x86_64-unknown-linux-gnu",
  "packages": ["core", "cli"],
  "exclude": ["bench"],
  "Z": ["build-std"],
  "args": ["--nocapture"],
  "command": "build",
  "release": true,
  "report": {
    "profile": "coverage",
    "locked": true,
    "unstable-features": ["unstable-options"]
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadSingle(t *testing.T, opts FileLoaderOptions) *configdomain.Layer {
	t.Helper()
	layers, err := NewFileLoader(opts).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, layers, 1)
	return &layers[0]
}

func TestFileLoader_FormatsDecodeIdentically(t *testing.T) {
	fixtures := map[string]string{
		"cargocov.toml": tomlFixture,
		"cargocov.yaml": yamlFixture,
		"cargocov.json": jsonFixture,
	}

	for name, content := range fixtures {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), name, content)

			layer := loadSingle(t, FileLoaderOptions{Path: path})
			cfg := layer.Config

			assert.Equal(t, configdomain.SourceFile, layer.Source)
			assert.Equal(t, path, layer.SourcePath)
			assert.Equal(t, configdomain.PriorityFile, layer.Priority)
			assert.True(t, layer.CommandSet)

			require.NotNil(t, cfg.Features)
			assert.Equal(t, "f1 f2", *cfg.Features)
			assert.True(t, cfg.All, "workspace should map onto all")
			require.NotNil(t, cfg.Jobs)
			assert.Equal(t, 4, *cfg.Jobs)
			require.NotNil(t, cfg.Target)
			assert.Equal(t, "x86_64-unknown-linux-gnu", *cfg.Target)
			assert.Equal(t, []string{"core", "cli"}, cfg.Packages)
			assert.Equal(t, []string{"bench"}, cfg.Exclude)
			assert.Equal(t, []string{"build-std"}, cfg.UnstableFeatures)
			assert.Equal(t, []string{"--nocapture"}, cfg.Varargs)
			assert.Equal(t, cargo.ModeBuild, cfg.Command)
			assert.True(t, cfg.Release)
			assert.False(t, cfg.Locked, "run tables must not leak into the top level")
			assert.Nil(t, cfg.Profile)
		})
	}
}

func TestFileLoader_NamedRun(t *testing.T) {
	fixtures := map[string]string{
		"cargocov.toml": tomlFixture,
		"cargocov.yml":  yamlFixture,
		"cargocov.json": jsonFixture,
	}

	for name, content := range fixtures {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), name, content)

			layer := loadSingle(t, FileLoaderOptions{Path: path, Run: "report"})
			cfg := layer.Config

			assert.Equal(t, "file:report", layer.Name)
			assert.False(t, layer.CommandSet)
			require.NotNil(t, cfg.Profile)
			assert.Equal(t, "coverage", *cfg.Profile)
			assert.True(t, cfg.Locked)
			assert.Equal(t, []string{"unstable-options"}, cfg.UnstableFeatures)
			assert.False(t, cfg.All)
			assert.Empty(t, cfg.Packages)
			assert.Equal(t, cargo.ModeTest, cfg.Command)
		})
	}
}

func TestFileLoader_UnknownRun(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cargocov.toml", tomlFixture)

	_, err := NewFileLoader(FileLoaderOptions{Path: path, Run: "missing"}).Load(context.Background())
	assert.ErrorIs(t, err, ErrUnknownRun)
}

func TestFileLoader_Aliases(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantAll  bool
		wantZ    []string
		conflict bool
	}{
		{name: "all_only", content: "all = true\n", wantAll: true},
		{name: "workspace_only", content: "workspace = true\n", wantAll: true},
		{name: "both_agree", content: "all = true\nworkspace = true\n", wantAll: true},
		{name: "both_disagree", content: "all = true\nworkspace = false\n", conflict: true},
		{name: "z_and_long_form_joined", content: "Z = [\"a\", \"b\"]\nunstable-features = [\"b\", \"c\"]\n", wantZ: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "cargocov.toml", tt.content)

			layers, err := NewFileLoader(FileLoaderOptions{Path: path}).Load(context.Background())
			if tt.conflict {
				assert.ErrorIs(t, err, ErrAliasConflict)
				return
			}
			require.NoError(t, err)
			require.Len(t, layers, 1)
			assert.Equal(t, tt.wantAll, layers[0].Config.All)
			if tt.wantZ != nil {
				assert.Equal(t, tt.wantZ, layers[0].Config.UnstableFeatures)
			}
		})
	}
}

func TestFileLoader_Discovery(t *testing.T) {
	t.Run("no_file_yields_no_layers", func(t *testing.T) {
		layers, err := NewFileLoader(FileLoaderOptions{Dir: t.TempDir()}).Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, layers)
	})

	t.Run("toml_preferred_over_yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "cargocov.yaml", "release: true\n")
		tomlPath := writeFile(t, dir, "cargocov.toml", "offline = true\n")

		layer := loadSingle(t, FileLoaderOptions{Dir: dir})
		assert.Equal(t, tomlPath, layer.SourcePath)
		assert.True(t, layer.Config.Offline)
		assert.False(t, layer.Config.Release)
	})

	t.Run("hidden_toml_found", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, ".cargocov.toml", "frozen = true\n")

		layer := loadSingle(t, FileLoaderOptions{Dir: dir})
		assert.Equal(t, path, layer.SourcePath)
		assert.True(t, layer.Config.Frozen)
	})
}

func TestFileLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{name: "missing_explicit_file", path: filepath.Join(dir, "nope.toml"), errMsg: "nope.toml"},
		{name: "unsupported_extension", path: writeFile(t, dir, "cargocov.ini", "x=1"), errMsg: "unsupported config file extension"},
		{name: "malformed_toml", path: writeFile(t, dir, "bad.toml", "jobs = = 3"), errMsg: "invalid toml"},
		{name: "bad_command", path: writeFile(t, dir, "cmd.toml", "command = \"bench\""), errMsg: "unsupported cargo command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileLoader(FileLoaderOptions{Path: tt.path}).Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFileLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileLoader(FileLoaderOptions{Dir: t.TempDir()}).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
