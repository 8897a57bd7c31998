// Package systems contains the simulation core: ripple field, pond
// boundary and resistance, steering, point-mass integration, and the spine
// chain. Everything here is pure float math over component values, shared
// verbatim by the sequential and parallel tick paths.
package systems

import (
	"math"

	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/geom"
)

// Bounds represents the simulation bounds.
type Bounds struct {
	Width, Height float32
}

// MotionParams holds the per-tick locomotion constants.
type MotionParams struct {
	MaxTurn         float32 // Heading clamp per tick, radians
	HeadingDamp     float32 // Fraction of the clamped turn applied
	HeadingDeadzone float32 // Min travel per tick before heading updates
	SwimPhaseRate   float32 // Swim phase advance per unit traveled
	BoostDecay      float32 // Fractional maxSpeed relaxation per tick
	BoostSnap       float32 // Gap below which maxSpeed snaps to base
}

// NewMotionParams extracts locomotion constants from configuration.
func NewMotionParams(c *config.Config) MotionParams {
	return MotionParams{
		MaxTurn:         float32(c.Steering.MaxTurn),
		HeadingDamp:     float32(c.Steering.HeadingDamp),
		HeadingDeadzone: float32(c.Steering.HeadingDeadzone),
		SwimPhaseRate:   float32(c.Steering.SwimPhaseRate),
		BoostDecay:      float32(c.Scatter.Decay),
		BoostSnap:       float32(c.Scatter.Snap),
	}
}

// Integrate applies the accumulated forces to velocity, clamps speed, moves
// the position, and zeroes the accumulator. The order is load-bearing:
// clamping after the position update would let a single overshoot tick
// teleport the fish.
func Integrate(pos *components.Position, vel *components.Velocity, mot *components.Motion, maxSpeed float32) {
	mot.PrevX = pos.X
	mot.PrevY = pos.Y

	vel.X += mot.AccelX
	vel.Y += mot.AccelY

	speedSq := vel.X*vel.X + vel.Y*vel.Y
	if speedSq > maxSpeed*maxSpeed {
		speed := float32(math.Sqrt(float64(speedSq)))
		s := maxSpeed / speed
		vel.X *= s
		vel.Y *= s
	}

	pos.X += vel.X
	pos.Y += vel.Y

	mot.AccelX = 0
	mot.AccelY = 0
}

// UpdateHeading smooths the travel direction from the actual per-tick
// displacement. Below the dead-zone the heading holds, which stops flutter
// at near-zero speed. The turn is clamped, then damped; the reported flag is
// true when the clamp engaged.
func UpdateHeading(rot *components.Rotation, pos *components.Position, mot *components.Motion, p MotionParams) (clipped bool) {
	dx := pos.X - mot.PrevX
	dy := pos.Y - mot.PrevY
	if dx*dx+dy*dy <= p.HeadingDeadzone*p.HeadingDeadzone {
		return false
	}

	target := float32(math.Atan2(float64(dy), float64(dx)))
	diff := geom.AngleDiff(rot.Heading, target)
	if diff > p.MaxTurn {
		diff = p.MaxTurn
		clipped = true
	} else if diff < -p.MaxTurn {
		diff = -p.MaxTurn
		clipped = true
	}
	rot.Heading = geom.WrapAngle(rot.Heading + diff*p.HeadingDamp)
	return clipped
}

// AdvanceSwimPhase ties undulation to travel: phase grows with the distance
// actually covered this tick, so a stationary fish does not visibly swim.
func AdvanceSwimPhase(sw *components.Swimmer, pos *components.Position, mot *components.Motion, rate float32) {
	dx := pos.X - mot.PrevX
	dy := pos.Y - mot.PrevY
	d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	sw.SwimPhase += d * rate
}

// RelaxMaxSpeed decays a scatter speed boost back toward the base speed,
// snapping once the gap is negligible so the boost cannot creep forever.
func RelaxMaxSpeed(sw *components.Swimmer, p MotionParams) {
	if sw.MaxSpeed <= sw.BaseMaxSpeed {
		sw.MaxSpeed = sw.BaseMaxSpeed
		return
	}
	gap := (sw.MaxSpeed - sw.BaseMaxSpeed) * (1 - p.BoostDecay)
	if gap < p.BoostSnap {
		sw.MaxSpeed = sw.BaseMaxSpeed
		return
	}
	sw.MaxSpeed = sw.BaseMaxSpeed + gap
}
