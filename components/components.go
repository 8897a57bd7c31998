// Package components defines ECS components for the simulation.
package components

import (
	"math"

	"github.com/Aete/koi-fish-animation/geom"
)

// MaxLinks is the capacity of a spine's link buffer.
// The configured link count must never exceed it.
const MaxLinks = 16

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Vec returns the position as a vector.
func (p Position) Vec() geom.Vec2 {
	return geom.Vec2{X: p.X, Y: p.Y}
}

// Set overwrites the position from a vector.
func (p *Position) Set(v geom.Vec2) {
	p.X, p.Y = v.X, v.Y
}

// Velocity represents an entity's velocity in world units per tick.
type Velocity struct {
	X, Y float32
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() geom.Vec2 {
	return geom.Vec2{X: v.X, Y: v.Y}
}

// Set overwrites the velocity from a vector.
func (v *Velocity) Set(w geom.Vec2) {
	v.X, v.Y = w.X, w.Y
}

// Motion holds the per-tick force accumulator and the previous position.
// Accel is zeroed after integration each tick; Prev feeds heading smoothing
// and the swim phase advance.
type Motion struct {
	AccelX, AccelY float32
	PrevX, PrevY   float32
}

// Accel returns the accumulated acceleration as a vector.
func (m Motion) Accel() geom.Vec2 {
	return geom.Vec2{X: m.AccelX, Y: m.AccelY}
}

// AddForce accumulates a steering force into the accelerator.
func (m *Motion) AddForce(f geom.Vec2) {
	m.AccelX += f.X
	m.AccelY += f.Y
}

// Prev returns the previous-tick position as a vector.
func (m Motion) Prev() geom.Vec2 {
	return geom.Vec2{X: m.PrevX, Y: m.PrevY}
}

// Rotation holds the smoothed travel heading in radians.
// Heading lags the instantaneous velocity direction: it turns at a bounded
// rate per tick, which keeps the body from snapping at low speeds.
type Rotation struct {
	Heading float32
}

// Swimmer holds per-fish locomotion state and construction-time scalars.
type Swimmer struct {
	Size         float32 // Fixed at spawn; scales link length and all visuals
	BaseMaxSpeed float32 // Resting top speed
	MaxSpeed     float32 // Current top speed; >= BaseMaxSpeed, decays back toward it
	MaxForce     float32 // Steering authority per tick
	WanderPhase  float32 // Random-walk angle driving the wander target
	SwimPhase    float32 // Monotonic, advanced by distance traveled; drives undulation
	Seed         uint32  // Stable per-fish seed for renderer decoration
}

// Link is one rigid spine segment. X, Y is the link start; the end is
// derived, never stored.
type Link struct {
	X, Y   float32
	Length float32
	Angle  float32
}

// Start returns the link start as a vector.
func (l Link) Start() geom.Vec2 {
	return geom.Vec2{X: l.X, Y: l.Y}
}

// End returns the link end: start + Length*(cos Angle, sin Angle).
// Chain continuity compares recomputed ends bit-exact, so this must stay
// a pure function of the stored fields.
func (l Link) End() geom.Vec2 {
	return geom.Vec2{
		X: l.X + l.Length*float32(math.Cos(float64(l.Angle))),
		Y: l.Y + l.Length*float32(math.Sin(float64(l.Angle))),
	}
}

// Spine holds the fish's link chain.
// Using a fixed-size array for better cache locality.
type Spine struct {
	Links [MaxLinks]Link
	Count uint8
}

// Link returns a pointer to link i.
func (s *Spine) Link(i int) *Link {
	return &s.Links[i]
}

// Head returns the head link (index 0).
func (s *Spine) Head() *Link {
	return &s.Links[0]
}

// Tail returns the tail-most active link.
func (s *Spine) Tail() *Link {
	return &s.Links[s.Count-1]
}
