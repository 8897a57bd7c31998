package geom

import "math"

// Pi as float32, for callers that work purely in float32.
const Pi = float32(math.Pi)

// Clamp limits v to the range [min, max].
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 limits v to the range [0, 1].
func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}

// WrapAngle normalizes an angle to the range (-Pi, Pi].
func WrapAngle(a float32) float32 {
	for a > Pi {
		a -= 2 * Pi
	}
	for a <= -Pi {
		a += 2 * Pi
	}
	return a
}

// AngleDiff returns the shortest signed rotation from a to b,
// in the range (-Pi, Pi].
func AngleDiff(a, b float32) float32 {
	return WrapAngle(b - a)
}

// Mod returns the positive floating-point remainder of v by m.
func Mod(v, m float32) float32 {
	r := float32(math.Mod(float64(v), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}
