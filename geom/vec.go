// Package geom provides float32 vector and angle math for the simulation.
package geom

import "math"

// Vec2 is a 2D vector in world units. Methods are value-based and never
// mutate the receiver.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

// LenSq returns the squared length of v.
func (v Vec2) LenSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the length of v.
func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.LenSq())))
}

// DistSq returns the squared distance between v and o.
func (v Vec2) DistSq(o Vec2) float32 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float32 {
	return float32(math.Sqrt(float64(v.DistSq(o))))
}

// Normalize returns v scaled to unit length.
// Vectors shorter than epsilon return the zero vector.
func (v Vec2) Normalize() Vec2 {
	const epsilon = 1e-8
	l := v.Len()
	if l < epsilon {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Limit returns v clamped to at most max length.
func (v Vec2) Limit(max float32) Vec2 {
	lsq := v.LenSq()
	if lsq <= max*max {
		return v
	}
	l := float32(math.Sqrt(float64(lsq)))
	s := max / l
	return Vec2{v.X * s, v.Y * s}
}

// Lerp returns the linear interpolation between v and o at t.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 {
	return Vec2{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
	}
}

// Rotate returns v rotated by the given angle in radians.
func (v Vec2) Rotate(angle float32) Vec2 {
	cos := float32(math.Cos(float64(angle)))
	sin := float32(math.Sin(float64(angle)))
	return Vec2{
		v.X*cos - v.Y*sin,
		v.X*sin + v.Y*cos,
	}
}

// Angle returns the direction of v in radians, in [-Pi, Pi].
func (v Vec2) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// FromAngle returns the unit vector pointing at the given angle.
func FromAngle(angle float32) Vec2 {
	return Vec2{
		float32(math.Cos(float64(angle))),
		float32(math.Sin(float64(angle))),
	}
}
