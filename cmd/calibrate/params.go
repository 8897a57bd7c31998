// Package main provides CMA-ES calibration for koi motion parameters.
package main

import (
	"github.com/Aete/koi-fish-animation/config"
)

// ParamSpec defines a single calibratable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all calibratable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of calibratable parameters.
// Fish body parameters (size, base speed, max force) are locked: calibration
// tunes how the fish steer, not what they are.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Wander steering
			{Name: "wander_radius", Path: "steering.wander_radius", Min: 10.0, Max: 80.0, Default: 40.0},
			{Name: "wander_distance", Path: "steering.wander_distance", Min: 20.0, Max: 140.0, Default: 80.0},
			{Name: "wander_jitter", Path: "steering.wander_jitter", Min: 0.05, Max: 0.8, Default: 0.3},
			// Heading control
			{Name: "max_turn", Path: "steering.max_turn", Min: 0.1, Max: 0.6, Default: 0.349},
			{Name: "heading_damp", Path: "steering.heading_damp", Min: 0.05, Max: 0.6, Default: 0.2},
			// Boundary containment
			{Name: "margin", Path: "boundary.margin", Min: 20.0, Max: 140.0, Default: 60.0},
			{Name: "margin_force", Path: "boundary.margin_force", Min: 0.01, Max: 0.2, Default: 0.05},
			// Ripple reaction
			{Name: "scatter_strength", Path: "scatter.strength", Min: 0.5, Max: 5.0, Default: 2.0},
			{Name: "boost_cap", Path: "scatter.boost_cap", Min: 1.2, Max: 3.0, Default: 2.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Apply each parameter to the config
	// Order must match Specs order
	i := 0

	// Wander steering
	cfg.Steering.WanderRadius = clamped[i]; i++
	cfg.Steering.WanderDistance = clamped[i]; i++
	cfg.Steering.WanderJitter = clamped[i]; i++

	// Heading control
	cfg.Steering.MaxTurn = clamped[i]; i++
	cfg.Steering.HeadingDamp = clamped[i]; i++

	// Boundary containment
	cfg.Boundary.Margin = clamped[i]; i++
	cfg.Boundary.MarginForce = clamped[i]; i++

	// Ripple reaction
	cfg.Scatter.Strength = clamped[i]; i++
	cfg.Scatter.BoostCap = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		// Wander steering
		cfg.Steering.WanderRadius,
		cfg.Steering.WanderDistance,
		cfg.Steering.WanderJitter,
		// Heading control
		cfg.Steering.MaxTurn,
		cfg.Steering.HeadingDamp,
		// Boundary containment
		cfg.Boundary.Margin,
		cfg.Boundary.MarginForce,
		// Ripple reaction
		cfg.Scatter.Strength,
		cfg.Scatter.BoostCap,
	}
}
