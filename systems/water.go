package systems

import (
	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/geom"
)

// BoundaryPolicy selects how edge crossings are handled.
type BoundaryPolicy uint8

const (
	// PolicyMargin steers fish inward inside a soft band and only teleports
	// once they pass an outer margin. The reference behavior.
	PolicyMargin BoundaryPolicy = iota
	// PolicyWrap teleports any out-of-bounds coordinate to the opposite edge.
	PolicyWrap
)

// Water models the pond: world extent, edge containment, and a velocity
// resistance that is deliberately weak next to steering. Value type, shared
// read-only across the tick.
type Water struct {
	bounds      Bounds
	policy      BoundaryPolicy
	margin      float32
	marginForce float32
	outerMargin float32
	density     float32
	dragCoeff   float32
	viscosity   float32
	scale       float32
}

// NewWater builds the pond model from validated configuration.
func NewWater(c *config.Config) Water {
	policy := PolicyMargin
	if c.Boundary.Policy == "wrap" {
		policy = PolicyWrap
	}
	return Water{
		bounds:      Bounds{Width: c.Derived.WorldW32, Height: c.Derived.WorldH32},
		policy:      policy,
		margin:      float32(c.Boundary.Margin),
		marginForce: float32(c.Boundary.MarginForce),
		outerMargin: float32(c.Boundary.OuterMargin),
		density:     float32(c.Water.Density),
		dragCoeff:   float32(c.Water.DragCoefficient),
		viscosity:   float32(c.Water.Viscosity),
		scale:       float32(c.Water.ResistanceScale),
	}
}

// Bounds returns the world extent.
func (w Water) Bounds() Bounds {
	return w.bounds
}

// Policy returns the configured boundary policy.
func (w Water) Policy() BoundaryPolicy {
	return w.policy
}

// MarginForce returns the constant inward steering force for a position
// inside the soft margin band. Contributions add per edge, so corners push
// diagonally. Zero under the wrap policy.
func (w Water) MarginForce(p geom.Vec2) geom.Vec2 {
	if w.policy != PolicyMargin {
		return geom.Vec2{}
	}
	var f geom.Vec2
	if p.X < w.margin {
		f.X += w.marginForce
	} else if p.X > w.bounds.Width-w.margin {
		f.X -= w.marginForce
	}
	if p.Y < w.margin {
		f.Y += w.marginForce
	} else if p.Y > w.bounds.Height-w.margin {
		f.Y -= w.marginForce
	}
	return f
}

// ShouldWrap reports whether the position requires a teleport this tick and
// returns the corrected position. The caller must reset the fish's spine in
// the same tick, before anything reads link positions.
func (w Water) ShouldWrap(p geom.Vec2) (geom.Vec2, bool) {
	switch w.policy {
	case PolicyWrap:
		if p.X < 0 || p.X > w.bounds.Width || p.Y < 0 || p.Y > w.bounds.Height {
			return w.Wrap(p), true
		}
	case PolicyMargin:
		wrapped := p
		crossed := false
		if p.X < -w.outerMargin {
			wrapped.X = w.bounds.Width
			crossed = true
		} else if p.X > w.bounds.Width+w.outerMargin {
			wrapped.X = 0
			crossed = true
		}
		if p.Y < -w.outerMargin {
			wrapped.Y = w.bounds.Height
			crossed = true
		} else if p.Y > w.bounds.Height+w.outerMargin {
			wrapped.Y = 0
			crossed = true
		}
		if crossed {
			return wrapped, true
		}
	}
	return p, false
}

// Wrap toroidally maps a position into [0, extent] on both axes.
func (w Water) Wrap(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: geom.Mod(p.X, w.bounds.Width),
		Y: geom.Mod(p.Y, w.bounds.Height),
	}
}

// DragForce returns the quadratic resistance opposing the velocity:
// 0.5 * density * |v|^2 * dragCoefficient * scale.
func (w Water) DragForce(v geom.Vec2) geom.Vec2 {
	speed := v.Len()
	if speed < 1e-6 {
		return geom.Vec2{}
	}
	mag := 0.5 * w.density * speed * speed * w.dragCoeff * w.scale
	return geom.Vec2{X: -v.X / speed * mag, Y: -v.Y / speed * mag}
}

// ViscousForce returns the linear resistance opposing the velocity:
// viscosity * |v| * scale.
func (w Water) ViscousForce(v geom.Vec2) geom.Vec2 {
	return v.Scale(-w.viscosity * w.scale)
}

// Resistance combines drag and viscous forces, capped so the total can stop
// the fish within a tick but never reverse it.
func (w Water) Resistance(v geom.Vec2) geom.Vec2 {
	speed := v.Len()
	if speed < 1e-6 {
		return geom.Vec2{}
	}
	mag := 0.5*w.density*speed*speed*w.dragCoeff*w.scale + w.viscosity*speed*w.scale
	if mag > speed {
		mag = speed
	}
	return geom.Vec2{X: -v.X / speed * mag, Y: -v.Y / speed * mag}
}
