package systems

import (
	"math"

	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/geom"
)

// SteeringParams holds the wander and scatter constants.
type SteeringParams struct {
	WanderRadius   float32
	WanderDistance float32
	WanderJitter   float32 // Max wander phase change per tick, radians
	ScatterClamp   float32 // Per-ripple force cap, multiple of the fish's max force
	SpeedGain      float32 // maxSpeed raise per unit of scatter force
	BoostCap       float32 // Max raise above base speed, multiple of base
}

// NewSteeringParams extracts steering constants from configuration.
func NewSteeringParams(c *config.Config) SteeringParams {
	return SteeringParams{
		WanderRadius:   float32(c.Steering.WanderRadius),
		WanderDistance: float32(c.Steering.WanderDistance),
		WanderJitter:   float32(c.Steering.WanderJitter),
		ScatterClamp:   float32(c.Scatter.ForceClamp),
		SpeedGain:      float32(c.Scatter.SpeedGain),
		BoostCap:       float32(c.Scatter.BoostCap),
	}
}

// WanderForce advances the wander phase by the pre-drawn jitter and steers
// toward a point on a circle projected ahead of the fish. The jitter is an
// argument rather than an rng draw so the sequential and parallel paths
// produce identical results from identical draws.
func WanderForce(sw *components.Swimmer, pos *components.Position, vel *components.Velocity, heading float32, jitter float32, p SteeringParams) geom.Vec2 {
	sw.WanderPhase += jitter

	// Project the wander circle ahead along the travel direction. A fish
	// that is not moving falls back to its heading.
	dir := geom.Vec2{X: vel.X, Y: vel.Y}.Normalize()
	if dir.IsZero() {
		dir = geom.FromAngle(heading)
	}

	cx := pos.X + dir.X*p.WanderDistance
	cy := pos.Y + dir.Y*p.WanderDistance
	tx := cx + p.WanderRadius*float32(math.Cos(float64(sw.WanderPhase)))
	ty := cy + p.WanderRadius*float32(math.Sin(float64(sw.WanderPhase)))

	offset := geom.Vec2{X: tx - pos.X, Y: ty - pos.Y}
	return offset.Normalize().Scale(sw.MaxForce)
}

// ApplyScatter accumulates the push from every ripple into the fish's force
// accumulator. Each ripple's force is clamped to a multiple of the fish's
// steering authority, so scatter can steer far harder than wander without
// becoming unbounded. Nonzero pushes also raise MaxSpeed for a visible dart,
// capped above base. Returns how many ripples actually pushed.
func ApplyScatter(sw *components.Swimmer, mot *components.Motion, pos *components.Position, ripples []Ripple, p SteeringParams) (impulses int) {
	if len(ripples) == 0 {
		return 0
	}
	at := pos.Vec()
	clampTo := sw.MaxForce * p.ScatterClamp
	ceil := sw.BaseMaxSpeed + sw.BaseMaxSpeed*p.BoostCap
	for i := range ripples {
		f := ripples[i].ScatterForceAt(at)
		if f.IsZero() {
			continue
		}
		f = f.Limit(clampTo)
		mot.AddForce(f)
		impulses++

		sw.MaxSpeed += f.Len() * p.SpeedGain
		if sw.MaxSpeed > ceil {
			sw.MaxSpeed = ceil
		}
	}
	return impulses
}
