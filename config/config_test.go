package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults failed: %v", err)
	}

	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 800 {
		t.Errorf("expected 1280x800 screen, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Spine.Links != 10 {
		t.Errorf("expected 10 spine links, got %d", cfg.Spine.Links)
	}
	if cfg.Ripple.MaxActive != 5 {
		t.Errorf("expected ripple cap 5, got %d", cfg.Ripple.MaxActive)
	}
	if cfg.Boundary.Policy != "margin" {
		t.Errorf("expected margin boundary policy, got %q", cfg.Boundary.Policy)
	}

	// World defaults to screen dimensions when unset.
	if cfg.Derived.WorldW32 != 1280 || cfg.Derived.WorldH32 != 800 {
		t.Errorf("expected derived world 1280x800, got %vx%v",
			cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	}
}

func TestLoadUserOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	overlay := "spine:\n  links: 8\nworld:\n  width: 2000\n  height: 1500\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatalf("writing overlay: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay failed: %v", err)
	}
	if cfg.Spine.Links != 8 {
		t.Errorf("overlay should set links to 8, got %d", cfg.Spine.Links)
	}
	if cfg.Derived.WorldW32 != 2000 || cfg.Derived.WorldH32 != 1500 {
		t.Errorf("overlay should set world to 2000x1500, got %vx%v",
			cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	}
	// Untouched fields keep their defaults.
	if cfg.Ripple.Speed != 1.8 {
		t.Errorf("ripple speed default lost: got %v", cfg.Ripple.Speed)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
	}{
		{"zero wave width", func(c *Config) { c.Ripple.WaveWidth = 0 }},
		{"negative ripple speed", func(c *Config) { c.Ripple.Speed = -1 }},
		{"too many spine links", func(c *Config) { c.Spine.Links = 20 }},
		{"single spine link", func(c *Config) { c.Spine.Links = 1 }},
		{"unknown boundary policy", func(c *Config) { c.Boundary.Policy = "bounce" }},
		{"size range inverted", func(c *Config) { c.Fish.SizeMin = 2; c.Fish.SizeMax = 1 }},
		{"speed range inverted", func(c *Config) { c.Fish.BaseSpeedMin = 3; c.Fish.BaseSpeedMax = 2 }},
		{"radius range inverted", func(c *Config) { c.Ripple.MaxRadiusMin = 400; c.Ripple.MaxRadiusMax = 300 }},
		{"wave width swallows radius", func(c *Config) { c.Ripple.WaveWidth = 500 }},
		{"scatter window above one", func(c *Config) { c.Scatter.Window = 1.5 }},
		{"decay of one never settles", func(c *Config) { c.Scatter.Decay = 1 }},
		{"initial above max population", func(c *Config) { c.Population.Initial = 100; c.Population.Max = 10 }},
	}

	for _, tc := range cases {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("%s: loading defaults: %v", tc.name, err)
		}
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate cleanly: %v", err)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if back.Ripple.MaxRadiusMax != cfg.Ripple.MaxRadiusMax {
		t.Errorf("roundtrip lost ripple.max_radius_max: %v vs %v",
			back.Ripple.MaxRadiusMax, cfg.Ripple.MaxRadiusMax)
	}
	if back.Steering.MaxTurn != cfg.Steering.MaxTurn {
		t.Errorf("roundtrip lost steering.max_turn: %v vs %v",
			back.Steering.MaxTurn, cfg.Steering.MaxTurn)
	}
}
