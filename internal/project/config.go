// Package project locates and loads the playground configuration file,
// sketch.toml.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultEndpoint is the playground API used when sketch.toml names none.
const DefaultEndpoint = "https://api.sketchlab.dev"

// DefaultLayout is the free local layout engine.
const DefaultLayout = "breeze"

// SeedScript is the script shown when no prior session or share link exists.
const SeedScript = "x -> y: hello world\n"

// Config is the decoded sketch.toml. Zero values fall back to the defaults
// above.
type Config struct {
	Render RenderConfig      `toml:"render"`
	Keys   map[string]string `toml:"keys"`
	Play   PlayConfig        `toml:"play"`
}

// RenderConfig selects the render endpoint, layout engine and theme.
type RenderConfig struct {
	Endpoint string `toml:"endpoint"`
	Layout   string `toml:"layout"`
	Theme    int    `toml:"theme"`
}

// PlayConfig tweaks the interactive playground.
type PlayConfig struct {
	Seed string `toml:"seed"`
}

// Default returns the configuration used when no sketch.toml is present.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Endpoint: DefaultEndpoint,
			Layout:   DefaultLayout,
		},
	}
}

// FindSketchToml walks up from startDir to locate sketch.toml.
func FindSketchToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "sketch.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig parses a sketch.toml and fills in defaults for anything the
// file leaves unset.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Render.Endpoint == "" {
		cfg.Render.Endpoint = DefaultEndpoint
	}
	if cfg.Render.Layout == "" {
		cfg.Render.Layout = DefaultLayout
	}
	if cfg.Play.Seed == "" {
		cfg.Play.Seed = SeedScript
	}
	return cfg, nil
}

// Discover finds and loads the nearest sketch.toml, or returns defaults when
// none exists.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindSketchToml(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		cfg := Default()
		cfg.Play.Seed = SeedScript
		return cfg, nil
	}
	return LoadConfig(path)
}
