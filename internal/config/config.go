// Package config loads and validates simulation settings from YAML and
// named presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultResolution = 100
	DefaultDx         = 0.025
	DefaultFrameDt    = 1.0 / 120.0
	DefaultFrames     = 120
	DefaultCFL        = 3.0
	DefaultGravity    = 1.0
	DefaultBand       = 5
	DefaultOrder      = 3
)

type Config struct {
	Scene      string  `yaml:"scene"`
	Resolution int     `yaml:"resolution"`
	Dx         float64 `yaml:"dx"`
	FrameDt    float64 `yaml:"frame_dt"`
	Frames     int     `yaml:"frames"`
	CFL        float64 `yaml:"cfl"`
	Band       int     `yaml:"band"`
	Order      int     `yaml:"order"`
	Seed       int64   `yaml:"seed"`

	Gravity          float64 `yaml:"gravity"`
	SurfaceTension   float64 `yaml:"surface_tension"`
	Viscosity        float64 `yaml:"viscosity"`
	EnforceBubbles   bool    `yaml:"enforce_bubbles"`
	TrackAir         bool    `yaml:"track_air"`
	VolumeCorrection bool    `yaml:"volume_correction"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      "pool",
		Resolution: DefaultResolution,
		Dx:         DefaultDx,
		FrameDt:    DefaultFrameDt,
		Frames:     DefaultFrames,
		CFL:        DefaultCFL,
		Band:       DefaultBand,
		Order:      DefaultOrder,
		Gravity:    DefaultGravity,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Resolution < 8 {
		return fmt.Errorf("resolution must be at least 8, got %d", c.Resolution)
	}
	if c.Dx <= 0 {
		return fmt.Errorf("dx must be positive, got %f", c.Dx)
	}
	if c.FrameDt <= 0 {
		return fmt.Errorf("frame_dt must be positive, got %f", c.FrameDt)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", c.Frames)
	}
	if c.CFL <= 0 {
		return fmt.Errorf("cfl must be positive, got %f", c.CFL)
	}
	if c.Order < 1 || c.Order > 3 {
		return fmt.Errorf("order must be 1-3, got %d", c.Order)
	}
	if c.Viscosity < 0 {
		return fmt.Errorf("viscosity must be non-negative, got %f", c.Viscosity)
	}
	return nil
}
