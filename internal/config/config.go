// Package config loads the YAML settings shared by the demo and the
// snapshot tool. Keys missing from a file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fovcone/internal/fov"
)

// Raycast backends.
const (
	BackendGrid   = "grid"
	BackendOpenCL = "opencl"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the whole file.
type Config struct {
	FOV     fov.Config    `yaml:"fov"`
	Window  WindowConfig  `yaml:"window"`
	World   WorldConfig   `yaml:"world"`
	Raycast RaycastConfig `yaml:"raycast"`
}

// WindowConfig sizes the initial window and camera.
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	// Scale is pixels per world unit.
	Scale float64 `yaml:"scale"`
	// Background is the main pass clear grey in [0, 1].
	Background float64 `yaml:"background"`
}

// WorldConfig describes the generated wall grid.
type WorldConfig struct {
	Columns       int     `yaml:"columns"`
	Rows          int     `yaml:"rows"`
	CellSize      float64 `yaml:"cell_size"`
	WallSegments  int     `yaml:"wall_segments"`
	WallMinLen    int     `yaml:"wall_min_len"`
	WallMaxLen    int     `yaml:"wall_max_len"`
	WallThickness int     `yaml:"wall_thickness"`
	// Seed 0 picks a time-based seed.
	Seed      int64   `yaml:"seed"`
	MoveSpeed float64 `yaml:"move_speed"`
	TurnSpeed float64 `yaml:"turn_speed"`
}

// RaycastConfig selects the ray caster.
type RaycastConfig struct {
	Backend string `yaml:"backend"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FOV: fov.DefaultConfig(),
		Window: WindowConfig{
			Width:      960,
			Height:     720,
			Title:      "Field of view",
			Resizable:  true,
			Scale:      1,
			Background: 0.35,
		},
		World: WorldConfig{
			Columns:       160,
			Rows:          160,
			CellSize:      8,
			WallSegments:  40,
			WallMinLen:    4,
			WallMaxLen:    24,
			WallThickness: 1,
			MoveSpeed:     3,
			TurnSpeed:     0.05,
		},
		Raycast: RaycastConfig{Backend: BackendGrid},
	}
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.FOV.Validate(); err != nil {
		return err
	}
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.Scale <= 0:
		return fmt.Errorf("%w: window scale %v", ErrInvalid, c.Window.Scale)
	case c.Window.Background < 0 || c.Window.Background > 1:
		return fmt.Errorf("%w: background %v outside [0, 1]", ErrInvalid, c.Window.Background)
	case c.World.Columns < 4 || c.World.Rows < 4:
		return fmt.Errorf("%w: world %dx%d cells", ErrInvalid, c.World.Columns, c.World.Rows)
	case c.World.CellSize <= 0:
		return fmt.Errorf("%w: cell size %v", ErrInvalid, c.World.CellSize)
	case c.World.WallSegments < 0 || c.World.WallThickness < 0:
		return fmt.Errorf("%w: negative wall settings", ErrInvalid)
	case c.World.WallMinLen <= 0 || c.World.WallMaxLen < c.World.WallMinLen:
		return fmt.Errorf("%w: wall length range [%d, %d]", ErrInvalid, c.World.WallMinLen, c.World.WallMaxLen)
	case c.World.MoveSpeed < 0 || c.World.TurnSpeed < 0:
		return fmt.Errorf("%w: negative speed", ErrInvalid)
	}
	switch c.Raycast.Backend {
	case BackendGrid, BackendOpenCL:
	default:
		return fmt.Errorf("%w: raycast backend %q", ErrInvalid, c.Raycast.Backend)
	}
	return nil
}
