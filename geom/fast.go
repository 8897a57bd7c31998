package geom

import "math"

// Fast math functions for hot-path rendering calculations.
// These avoid float32->float64 conversions that Go's math package requires.
// Simulation systems use exact math; renderers evaluating per-vertex wave
// envelopes use these instead.

// FastSin approximates sin(x) using a polynomial. Accurate to ~0.001 for all x.
func FastSin(x float32) float32 {
	// Normalize to [-π, π]
	x = WrapAngle(x)
	// Parabola approximation with correction factor
	const pi2 = Pi * Pi
	ax := x
	if ax < 0 {
		ax = -ax
	}
	y := 4 * x * (Pi - ax) / pi2
	// Correction: improves accuracy
	return 0.225*(y*Abs(y)-y) + y
}

// FastCos approximates cos(x) using FastSin.
func FastCos(x float32) float32 {
	return FastSin(x + Pi/2)
}

// FastExp approximates exp(x) for x in [-4, 4].
func FastExp(x float32) float32 {
	if x > 4 {
		return 54.6 // exp(4) ≈ 54.6
	}
	if x < -4 {
		return 0
	}
	// Padé approximation
	x2 := x * x
	return (12 + 6*x + x2) / (12 - 6*x + x2)
}

// FastSqrt approximates sqrt(x) using fast inverse sqrt.
func FastSqrt(x float32) float32 {
	if x <= 0 {
		return 0
	}
	i := math.Float32bits(x)
	i = 0x5f375a86 - (i >> 1)
	y := math.Float32frombits(i)
	y = y * (1.5 - 0.5*x*y*y)
	return x * y
}

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
