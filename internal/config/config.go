// Package config loads ftfmt settings from embedded defaults, the project
// config file, FTFMT_ environment variables and command-line flags, in
// that order of precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/chriserin/ftfmt/internal/ui"
)

// DefaultPath is the project config file.
const DefaultPath = "fts/ft.toml"

const envPrefix = "FTFMT_"

//go:embed defaults.toml
var defaults []byte

// Defaults returns the embedded default config file.
func Defaults() []byte {
	return defaults
}

type Config struct {
	Color       string            `koanf:"color"`
	Source      bool              `koanf:"source"`
	NoMultiline bool              `koanf:"no_multiline"`
	Wip         bool              `koanf:"wip"`
	Record      bool              `koanf:"record"`
	Prefixes    map[string]string `koanf:"prefixes"`
}

// ColorMode returns the configured color preference.
func (c *Config) ColorMode() ui.ColorMode {
	return ui.ColorMode(c.Color)
}

// Options say where to look for settings.
type Options struct {
	// Path is the config file. Empty means DefaultPath, which may be
	// missing; an explicit Path must exist.
	Path string
	// Flags override everything else. Keys are config keys.
	Flags map[string]any
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load builds the Config.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaults}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Project config
	path := opts.Path
	if path == "" {
		path = DefaultPath
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	// 3. Environment, FTFMT_PREFIXES__FAILED sets prefixes.failed
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if len(opts.Flags) > 0 {
		if err := k.Load(confmap.Provider(opts.Flags, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.ColorMode() {
	case ui.ColorAuto, ui.ColorAlways, ui.ColorNever:
	default:
		return fmt.Errorf("invalid color %q: want auto, always or never", c.Color)
	}
	return nil
}
