package systems

import (
	"math"
	"testing"

	"github.com/Aete/koi-fish-animation/geom"
)

// ---------- Margin steering ----------

func TestMarginForce_PointsInwardOnEveryEdge(t *testing.T) {
	cfg := testConfig(t)
	w := NewWater(cfg)
	force := float32(cfg.Boundary.MarginForce)

	cases := []struct {
		name         string
		p            geom.Vec2
		wantX, wantY float32
	}{
		{"left edge", geom.Vec2{X: 10, Y: 400}, force, 0},
		{"right edge", geom.Vec2{X: 1270, Y: 400}, -force, 0},
		{"top edge", geom.Vec2{X: 400, Y: 10}, 0, force},
		{"bottom edge", geom.Vec2{X: 400, Y: 790}, 0, -force},
		{"corner", geom.Vec2{X: 10, Y: 10}, force, force},
		{"center", geom.Vec2{X: 640, Y: 400}, 0, 0},
	}
	for _, c := range cases {
		got := w.MarginForce(c.p)
		if got.X != c.wantX || got.Y != c.wantY {
			t.Errorf("%s: expected (%v, %v), got (%v, %v)",
				c.name, c.wantX, c.wantY, got.X, got.Y)
		}
	}
}

// ---------- Wrapping ----------

func TestShouldWrap_MarginPolicyUsesOuterMargin(t *testing.T) {
	cfg := testConfig(t)
	w := NewWater(cfg) // outer margin 40, world 1280x800

	// Inside the outer margin: no wrap even though out of bounds.
	if _, wrapped := w.ShouldWrap(geom.Vec2{X: -39, Y: 300}); wrapped {
		t.Error("inside outer margin should not wrap")
	}

	// Past it: teleport to the opposite edge, other axis untouched.
	p, wrapped := w.ShouldWrap(geom.Vec2{X: -41, Y: 300})
	if !wrapped {
		t.Fatal("past outer margin should wrap")
	}
	if p.X != 1280 || p.Y != 300 {
		t.Errorf("expected (1280, 300), got (%v, %v)", p.X, p.Y)
	}

	p, wrapped = w.ShouldWrap(geom.Vec2{X: 700, Y: 841})
	if !wrapped || p.Y != 0 || p.X != 700 {
		t.Errorf("expected (700, 0) wrapped, got (%v, %v) %v", p.X, p.Y, wrapped)
	}
}

func TestShouldWrap_WrapPolicyIsToroidal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Boundary.Policy = "wrap"
	w := NewWater(cfg)

	p, wrapped := w.ShouldWrap(geom.Vec2{X: -5, Y: 300})
	if !wrapped {
		t.Fatal("out-of-bounds position should wrap under wrap policy")
	}
	if math.Abs(float64(p.X)-1275) > 1e-3 || p.Y != 300 {
		t.Errorf("expected (1275, 300), got (%v, %v)", p.X, p.Y)
	}

	if _, wrapped := w.ShouldWrap(geom.Vec2{X: 640, Y: 400}); wrapped {
		t.Error("in-bounds position should not wrap")
	}

	// Margin steering is disabled under the wrap policy.
	if f := w.MarginForce(geom.Vec2{X: 10, Y: 400}); !f.IsZero() {
		t.Errorf("wrap policy should not steer, got (%v, %v)", f.X, f.Y)
	}
}

func TestWrap_MapsBothAxes(t *testing.T) {
	cfg := testConfig(t)
	w := NewWater(cfg)
	p := w.Wrap(geom.Vec2{X: -5, Y: 805})
	if math.Abs(float64(p.X)-1275) > 1e-3 || math.Abs(float64(p.Y)-5) > 1e-3 {
		t.Errorf("expected (1275, 5), got (%v, %v)", p.X, p.Y)
	}
}

// ---------- Resistance ----------

func TestDragForce_OpposesVelocityQuadratically(t *testing.T) {
	cfg := testConfig(t)
	w := NewWater(cfg)

	v := geom.Vec2{X: 2, Y: 0}
	f := w.DragForce(v)
	if f.X >= 0 || f.Y != 0 {
		t.Fatalf("drag should oppose +X travel, got (%v, %v)", f.X, f.Y)
	}

	// Doubling speed quadruples drag.
	f2 := w.DragForce(geom.Vec2{X: 4, Y: 0})
	ratio := f2.X / f.X
	if math.Abs(float64(ratio)-4) > 1e-3 {
		t.Errorf("expected 4x drag at 2x speed, got %vx", ratio)
	}

	if f := w.DragForce(geom.Vec2{}); !f.IsZero() {
		t.Error("drag at rest should be zero")
	}
}

func TestViscousForce_LinearInVelocity(t *testing.T) {
	cfg := testConfig(t)
	w := NewWater(cfg)

	f := w.ViscousForce(geom.Vec2{X: 3, Y: -4})
	want := float32(cfg.Water.Viscosity * cfg.Water.ResistanceScale)
	if math.Abs(float64(f.X+3*want)) > 1e-5 || math.Abs(float64(f.Y-4*want)) > 1e-5 {
		t.Errorf("expected (%v, %v), got (%v, %v)", -3*want, 4*want, f.X, f.Y)
	}
}

func TestResistance_NeverReversesVelocity(t *testing.T) {
	cfg := testConfig(t)
	// Absurd coefficients: the cap must still prevent reversal.
	cfg.Water.DragCoefficient = 50
	cfg.Water.Viscosity = 50
	cfg.Water.ResistanceScale = 10
	w := NewWater(cfg)

	speeds := []geom.Vec2{{X: 3, Y: 0}, {X: 0.001, Y: 0}, {X: -2, Y: 5}, {X: 0.5, Y: -0.5}}
	for _, v := range speeds {
		r := w.Resistance(v)
		after := v.Add(r)
		if after.Dot(v) < 0 {
			t.Errorf("resistance reversed velocity (%v, %v) -> (%v, %v)",
				v.X, v.Y, after.X, after.Y)
		}
		if r.Len() > v.Len()+1e-4 {
			t.Errorf("resistance magnitude %v exceeds speed %v", r.Len(), v.Len())
		}
	}
}

func TestResistance_WeakAtDefaultSettings(t *testing.T) {
	cfg := testConfig(t)
	w := NewWater(cfg)

	// Resistance is decorative: at cruising speed it stays well under the
	// fish's steering authority.
	v := geom.Vec2{X: 2.2, Y: 0}
	r := w.Resistance(v)
	if r.Len() >= float32(cfg.Fish.MaxForce) {
		t.Errorf("resistance %v should stay below steering authority %v",
			r.Len(), cfg.Fish.MaxForce)
	}
}
