package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftfmt/internal/ui"
)

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "fts", "ft.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, ui.ColorAuto, cfg.ColorMode())
	assert.False(t, cfg.Source)
	assert.False(t, cfg.NoMultiline)
	assert.False(t, cfg.Wip)
	assert.False(t, cfg.Record)
	assert.Empty(t, cfg.Prefixes)
}

func TestLoad_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeConfig(t, dir, "color = \"never\"\nsource = true\n\n[prefixes]\nfailed = \"!\"\n")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, ui.ColorNever, cfg.ColorMode())
	assert.True(t, cfg.Source)
	assert.Equal(t, map[string]string{"failed": "!"}, cfg.Prefixes)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(Options{Path: "missing.toml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.toml")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeConfig(t, dir, "wip = false\n")
	t.Setenv("FTFMT_WIP", "true")
	t.Setenv("FTFMT_NO_MULTILINE", "true")
	t.Setenv("FTFMT_PREFIXES__PASSED", "+")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.True(t, cfg.Wip)
	assert.True(t, cfg.NoMultiline)
	assert.Equal(t, "+", cfg.Prefixes["passed"])
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FTFMT_COLOR", "always")

	cfg, err := Load(Options{Flags: map[string]any{"color": "never", "record": true}})
	require.NoError(t, err)
	assert.Equal(t, ui.ColorNever, cfg.ColorMode())
	assert.True(t, cfg.Record)
}

func TestLoad_InvalidColor(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FTFMT_COLOR", "sometimes")

	_, err := Load(Options{})
	require.EqualError(t, err, `invalid color "sometimes": want auto, always or never`)
}

func TestDefaults_ParseAsConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "copy.toml")
	require.NoError(t, os.WriteFile(path, Defaults(), 0o644))

	cfg, err := Load(Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Color)
}
