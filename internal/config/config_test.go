package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(*Config) {}, true},
		{"tiny resolution", func(c *Config) { c.Resolution = 4 }, false},
		{"zero dx", func(c *Config) { c.Dx = 0 }, false},
		{"negative frame dt", func(c *Config) { c.FrameDt = -1 }, false},
		{"zero frames", func(c *Config) { c.Frames = 0 }, false},
		{"zero cfl", func(c *Config) { c.CFL = 0 }, false},
		{"order too high", func(c *Config) { c.Order = 4 }, false},
		{"order too low", func(c *Config) { c.Order = 0 }, false},
		{"negative viscosity", func(c *Config) { c.Viscosity = -1 }, false},
		{"viscous", func(c *Config) { c.Viscosity = 5 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantOK && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.wantOK && err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Scene = "droplet"
	cfg.SurfaceTension = 12.5
	cfg.TrackAir = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.Scene != "droplet" {
		t.Errorf("expected scene droplet, got %s", got.Scene)
	}
	if got.SurfaceTension != 12.5 {
		t.Errorf("expected surface tension 12.5, got %f", got.SurfaceTension)
	}
	if !got.TrackAir {
		t.Error("expected track_air true")
	}
	if got.Resolution != cfg.Resolution {
		t.Errorf("expected resolution %d, got %d", cfg.Resolution, got.Resolution)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPresetsValidate(t *testing.T) {
	for name, p := range Presets {
		if err := p.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
