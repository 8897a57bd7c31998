// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Fish       FishConfig       `yaml:"fish"`
	Steering   SteeringConfig   `yaml:"steering"`
	Scatter    ScatterConfig    `yaml:"scatter"`
	Ripple     RippleConfig     `yaml:"ripple"`
	Boundary   BoundaryConfig   `yaml:"boundary"`
	Water      WaterConfig      `yaml:"water"`
	Spine      SpineConfig      `yaml:"spine"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds pond dimensions.
// World can be larger than the screen; camera handles the viewport.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// PopulationConfig holds fish population parameters.
type PopulationConfig struct {
	Initial int `yaml:"initial"`
	Max     int `yaml:"max"`
}

// FishConfig holds per-fish construction parameters.
// Size and base speed are drawn uniformly from their ranges at spawn.
type FishConfig struct {
	SizeMin      float64 `yaml:"size_min"`
	SizeMax      float64 `yaml:"size_max"`
	BaseSpeedMin float64 `yaml:"base_speed_min"` // Top speed in world units per tick
	BaseSpeedMax float64 `yaml:"base_speed_max"`
	MaxForce     float64 `yaml:"max_force"` // Steering authority per tick
}

// SteeringConfig holds wander and heading parameters.
type SteeringConfig struct {
	WanderRadius    float64 `yaml:"wander_radius"`
	WanderDistance  float64 `yaml:"wander_distance"`
	WanderJitter    float64 `yaml:"wander_jitter"`    // Max wander phase change per tick, radians
	MaxTurn         float64 `yaml:"max_turn"`         // Heading clamp per tick, radians
	HeadingDamp     float64 `yaml:"heading_damp"`     // Fraction of the clamped turn applied
	HeadingDeadzone float64 `yaml:"heading_deadzone"` // Min travel per tick before heading updates
	SwimPhaseRate   float64 `yaml:"swim_phase_rate"`  // Swim phase advance per unit traveled
}

// ScatterConfig holds ripple reaction parameters.
type ScatterConfig struct {
	Strength       float64 `yaml:"strength"`
	Range          float64 `yaml:"range"`
	DistanceFactor float64 `yaml:"distance_factor"`
	Window         float64 `yaml:"window"`      // Active while radius/maxRadius <= this
	ForceClamp     float64 `yaml:"force_clamp"` // Per-ripple force cap, multiple of max_force
	SpeedGain      float64 `yaml:"speed_gain"`  // maxSpeed raise per unit of scatter force
	BoostCap       float64 `yaml:"boost_cap"`   // Max raise above base speed, multiple of base
	Decay          float64 `yaml:"decay"`       // Fractional maxSpeed relaxation per tick
	Snap           float64 `yaml:"snap"`        // Gap below which maxSpeed snaps to base
}

// RippleConfig holds wave disturbance parameters.
type RippleConfig struct {
	Speed        float64 `yaml:"speed"`      // Radius growth per tick
	WaveWidth    float64 `yaml:"wave_width"` // Displacement band around the wavefront
	Amplitude    float64 `yaml:"amplitude"`  // Initial displacement amplitude
	MaxRadiusMin float64 `yaml:"max_radius_min"`
	MaxRadiusMax float64 `yaml:"max_radius_max"`
	MaxActive    int     `yaml:"max_active"` // Concurrent cap, oldest evicted first
}

// BoundaryConfig holds edge containment parameters.
type BoundaryConfig struct {
	Policy      string  `yaml:"policy"`       // "margin" or "wrap"
	Margin      float64 `yaml:"margin"`       // Inward-force band width at each edge
	MarginForce float64 `yaml:"margin_force"` // Constant inward force inside the band
	OuterMargin float64 `yaml:"outer_margin"` // Wrap once past the edge by this much
}

// WaterConfig holds resistance parameters.
// Resistance is decorative; steering dominates it by an order of magnitude.
type WaterConfig struct {
	Density         float64 `yaml:"density"`
	DragCoefficient float64 `yaml:"drag_coefficient"`
	Viscosity       float64 `yaml:"viscosity"`
	ResistanceScale float64 `yaml:"resistance_scale"`
}

// SpineConfig holds skeleton chain parameters.
type SpineConfig struct {
	Links            int     `yaml:"links"`              // Segments per fish, 2..16
	LinkLengthFactor float64 `yaml:"link_length_factor"` // Link length = fish size * this
	HeadSway         float64 `yaml:"head_sway"`          // Head sway amplitude, radians
	MaxSwing         float64 `yaml:"max_swing"`          // Tail-most undulation amplitude, radians
	WaveFreq         float64 `yaml:"wave_freq"`          // Phase offset per link
}

// RenderConfig holds rendering parameters.
type RenderConfig struct {
	Quality QualityConfig     `yaml:"quality"`
	Water   WaterRenderConfig `yaml:"water"`
}

// QualityConfig holds the opaque quality multipliers threaded to the renderer.
// The core recognizes nothing beyond "nonnegative scalar multiplier".
type QualityConfig struct {
	SubdivisionLevel    int     `yaml:"subdivision_level"`
	StripeSpacingFactor float64 `yaml:"stripe_spacing_factor"`
	StepSizeFactor      float64 `yaml:"step_size_factor"`
	SpotStepFactor      float64 `yaml:"spot_step_factor"`
}

// WaterRenderConfig holds water background parameters.
type WaterRenderConfig struct {
	NoiseScale     float64 `yaml:"noise_scale"`
	ShimmerSpeed   float64 `yaml:"shimmer_speed"`
	TextureDivisor int     `yaml:"texture_divisor"` // Water texture resolution = world / this
	RefreshTicks   int     `yaml:"refresh_ticks"`   // Regenerate the water texture every N ticks
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	WorldW32  float32 // Effective world width as float32
	WorldH32  float32 // Effective world height as float32
	DT32      float32 // Simulated seconds per tick (1 / target_fps)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The merged result is
// validated before use; a config that fails validation never becomes live.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Reject out-of-range values before they can turn into NaNs mid-run
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	c.Derived.DT32 = float32(1.0 / float64(c.Screen.TargetFPS))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
