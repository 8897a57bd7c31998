package systems

import (
	"math"
	"testing"

	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/geom"
)

// ---------- Wander ----------

func TestWanderForce_MagnitudeIsMaxForce(t *testing.T) {
	cfg := testConfig(t)
	p := NewSteeringParams(cfg)

	sw := components.Swimmer{MaxForce: 0.08, WanderPhase: 1.3}
	pos := components.Position{X: 500, Y: 400}
	vel := components.Velocity{X: 1.5, Y: -0.7}

	f := WanderForce(&sw, &pos, &vel, 0, 0.1, p)
	if math.Abs(float64(f.Len())-0.08) > 1e-5 {
		t.Errorf("wander force magnitude: expected 0.08, got %v", f.Len())
	}
	if sw.WanderPhase != 1.3+0.1 {
		t.Errorf("wander phase should advance by jitter, got %v", sw.WanderPhase)
	}
}

func TestWanderForce_StationaryFallsBackToHeading(t *testing.T) {
	cfg := testConfig(t)
	p := NewSteeringParams(cfg)

	// Zero velocity, heading +X, wander phase 0: the target sits dead ahead
	// at (distance + radius, 0), so the force points along +X.
	sw := components.Swimmer{MaxForce: 0.08, WanderPhase: 0}
	pos := components.Position{X: 500, Y: 400}
	vel := components.Velocity{}

	f := WanderForce(&sw, &pos, &vel, 0, 0, p)
	if f.X <= 0 {
		t.Errorf("expected +X wander force for +X heading, got (%v, %v)", f.X, f.Y)
	}
	if math.Abs(float64(f.Y)) > 1e-5 {
		t.Errorf("expected no lateral force, got Y %v", f.Y)
	}
}

func TestWanderForce_PhaseSweepsTarget(t *testing.T) {
	cfg := testConfig(t)
	p := NewSteeringParams(cfg)

	pos := components.Position{X: 0, Y: 0}
	vel := components.Velocity{X: 2, Y: 0}

	// Phase pi/2 puts the target above the circle center.
	up := components.Swimmer{MaxForce: 0.08, WanderPhase: geom.Pi / 2}
	fUp := WanderForce(&up, &pos, &vel, 0, 0, p)
	if fUp.Y <= 0 {
		t.Errorf("phase pi/2 should pull upward, got Y %v", fUp.Y)
	}

	// Phase -pi/2 pulls below.
	down := components.Swimmer{MaxForce: 0.08, WanderPhase: -geom.Pi / 2}
	fDown := WanderForce(&down, &pos, &vel, 0, 0, p)
	if fDown.Y >= 0 {
		t.Errorf("phase -pi/2 should pull downward, got Y %v", fDown.Y)
	}
}

// ---------- Scatter ----------

func TestApplyScatter_ClampsForceAndBoostsSpeed(t *testing.T) {
	cfg := testConfig(t)
	p := NewSteeringParams(cfg)

	// Overwhelming ripple right next to the fish.
	r := testRipple()
	r.ScatterStrength = 100
	r.Update()

	sw := components.Swimmer{MaxForce: 0.08, BaseMaxSpeed: 2, MaxSpeed: 2}
	mot := components.Motion{}
	pos := components.Position{X: 550, Y: 500}

	impulses := ApplyScatter(&sw, &mot, &pos, []Ripple{r}, p)
	if impulses != 1 {
		t.Fatalf("expected 1 impulse, got %d", impulses)
	}

	// Force clamped to maxForce * clamp multiple.
	clampTo := 0.08 * float32(cfg.Scatter.ForceClamp)
	mag := float32(math.Sqrt(float64(mot.AccelX*mot.AccelX + mot.AccelY*mot.AccelY)))
	if math.Abs(float64(mag-clampTo)) > 1e-5 {
		t.Errorf("accumulated force: expected clamp %v, got %v", clampTo, mag)
	}
	if mot.AccelX <= 0 {
		t.Errorf("scatter should push away from the ripple, got X %v", mot.AccelX)
	}

	// Speed boost: gain * clamped force, below the cap.
	wantBoost := clampTo * float32(cfg.Scatter.SpeedGain)
	if math.Abs(float64(sw.MaxSpeed-(2+wantBoost))) > 1e-4 {
		t.Errorf("maxSpeed: expected %v, got %v", 2+wantBoost, sw.MaxSpeed)
	}
}

func TestApplyScatter_BoostCapped(t *testing.T) {
	cfg := testConfig(t)
	p := NewSteeringParams(cfg)

	r := testRipple()
	r.ScatterStrength = 100
	r.Update()

	sw := components.Swimmer{MaxForce: 5, BaseMaxSpeed: 2, MaxSpeed: 2}
	mot := components.Motion{}
	pos := components.Position{X: 550, Y: 500}

	// Hammer the fish with repeated impulses; the boost saturates.
	for i := 0; i < 100; i++ {
		ApplyScatter(&sw, &mot, &pos, []Ripple{r}, p)
	}
	ceil := sw.BaseMaxSpeed + sw.BaseMaxSpeed*p.BoostCap
	if sw.MaxSpeed > ceil+1e-4 {
		t.Errorf("maxSpeed %v exceeds cap %v", sw.MaxSpeed, ceil)
	}
	if math.Abs(float64(sw.MaxSpeed-ceil)) > 1e-3 {
		t.Errorf("repeated impulses should saturate at %v, got %v", ceil, sw.MaxSpeed)
	}
}

func TestApplyScatter_InertRipplesLeaveNoTrace(t *testing.T) {
	cfg := testConfig(t)
	p := NewSteeringParams(cfg)

	dead := testRipple()
	dead.Alive = false
	distant := testRipple()
	distant.Update()

	sw := components.Swimmer{MaxForce: 0.08, BaseMaxSpeed: 2, MaxSpeed: 2}
	mot := components.Motion{}
	pos := components.Position{X: 5000, Y: 5000} // far outside scatter range

	impulses := ApplyScatter(&sw, &mot, &pos, []Ripple{dead, distant}, p)
	if impulses != 0 {
		t.Errorf("expected no impulses, got %d", impulses)
	}
	if mot.AccelX != 0 || mot.AccelY != 0 {
		t.Errorf("acceleration should be untouched, got (%v, %v)", mot.AccelX, mot.AccelY)
	}
	if sw.MaxSpeed != 2 {
		t.Errorf("maxSpeed should be untouched, got %v", sw.MaxSpeed)
	}
}
