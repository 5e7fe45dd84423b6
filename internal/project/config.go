package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors movecheck.toml. Zero values mean "not set"; command-line
// flags take precedence over anything here.
type Config struct {
	Check  CheckConfig  `toml:"check"`
	Render RenderConfig `toml:"render"`
}

// CheckConfig is the [check] table.
type CheckConfig struct {
	Jobs           int  `toml:"jobs"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Cache          bool `toml:"cache"`
}

// RenderConfig is the [render] table.
type RenderConfig struct {
	Gap      int    `toml:"gap"`
	Context  int    `toml:"context"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
	Format   string `toml:"format"`
}

// Manifest is a loaded movecheck.toml.
type Manifest struct {
	Path   string
	Config Config
}

var (
	// ErrInvalidConfig marks a movecheck.toml with out-of-range values.
	ErrInvalidConfig = errors.New("invalid movecheck.toml")
)

// LoadConfig parses and validates a movecheck.toml.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if cfg.Check.Jobs < 0 || cfg.Check.MaxDiagnostics < 0 || cfg.Render.Gap < 0 || cfg.Render.Context < 0 || cfg.Render.Context > 127 {
		return Config{}, fmt.Errorf("%s: %w: negative or oversized number", path, ErrInvalidConfig)
	}
	switch cfg.Render.Color {
	case "", "auto", "on", "off":
	default:
		return Config{}, fmt.Errorf("%s: %w: [render].color must be auto, on or off", path, ErrInvalidConfig)
	}
	switch cfg.Render.Format {
	case "", "pretty", "short", "json":
	default:
		return Config{}, fmt.Errorf("%s: %w: [render].format must be pretty, short or json", path, ErrInvalidConfig)
	}
	return cfg, nil
}

// LoadManifest finds movecheck.toml above startPath and loads it. ok is
// false when no file exists.
func LoadManifest(startPath string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startPath)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Config: cfg}, true, nil
}
