package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/geom"
	"github.com/Aete/koi-fish-animation/systems"
	"github.com/Aete/koi-fish-animation/telemetry"
)

// testConfig loads the embedded defaults with a YAML overlay applied.
func testConfig(t *testing.T, overlay string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading test config: %v", err)
	}
	return cfg
}

// placeFish moves every fish to the given spot, stops it, and rebuilds its
// chain there, as if it had been spawned at that position.
func placeFish(g *Game, x, y, heading float32) {
	query := g.fishFilter.Query()
	for query.Next() {
		pos, vel, mot, rot, _, spine := query.Get()
		pos.X, pos.Y = x, y
		vel.X, vel.Y = 0, 0
		mot.PrevX, mot.PrevY = x, y
		mot.AccelX, mot.AccelY = 0, 0
		rot.Heading = heading
		systems.ResetSpine(spine, pos.Vec(), heading+geom.Pi)
	}
}

// A lone fish in a calm pond must stay inside the outer margin band and under
// its speed limit for the whole run.
func TestLoneFishStaysContained(t *testing.T) {
	cfg := testConfig(t, "world:\n  width: 1000\n  height: 1000\npopulation:\n  initial: 1\n  max: 4\n")
	g := NewGameWithOptions(Options{Seed: 7, Headless: true, Config: cfg})
	defer g.Unload()

	placeFish(g, 500, 500, 0)

	outer := float32(cfg.Boundary.OuterMargin)
	for i := 0; i < 1000; i++ {
		g.UpdateHeadless()

		var escaped, tooFast bool
		var px, py, speed, max float32
		g.ForEachFish(func(pos *components.Position, vel *components.Velocity, _ *components.Rotation, sw *components.Swimmer, _ *components.Spine) {
			if pos.X < -outer || pos.X > 1000+outer || pos.Y < -outer || pos.Y > 1000+outer {
				escaped, px, py = true, pos.X, pos.Y
			}
			// Never boosted in a calm pond, so the plain bound applies.
			if s := (geom.Vec2{X: vel.X, Y: vel.Y}).Len(); s > sw.MaxSpeed+1e-3 {
				tooFast, speed, max = true, s, sw.MaxSpeed
			}
		})
		if escaped {
			t.Fatalf("tick %d: fish escaped containment at (%v, %v)", g.Tick(), px, py)
		}
		if tooFast {
			t.Fatalf("tick %d: speed %v exceeds max %v", g.Tick(), speed, max)
		}
	}
}

// A ripple with speed 2 and max radius 150 crosses the pond in exactly 75
// ticks and must die on the 76th.
func TestRippleExpiresOnSchedule(t *testing.T) {
	overlay := "world:\n  width: 1000\n  height: 1000\n" +
		"ripple:\n  speed: 2\n  max_radius_min: 150\n  max_radius_max: 150\n"
	cfg := testConfig(t, overlay)
	g := NewGameWithOptions(Options{Seed: 3, Headless: true, Config: cfg})
	defer g.Unload()

	g.SpawnRipple(500, 500)

	lifetime := 150/2 + 1
	for i := 1; i <= lifetime; i++ {
		g.UpdateHeadless()
		alive := len(g.ActiveRipples()) == 1
		if i < lifetime && !alive {
			t.Fatalf("ripple died early, tick %d of %d", i, lifetime)
		}
		if i == lifetime && alive {
			t.Fatalf("ripple still alive after %d ticks", lifetime)
		}
	}
}

// A fish near a fresh ripple gets pushed away from the center and carries a
// temporary speed boost that fully relaxes once the ripple has passed.
func TestScatterBoostsThenRelaxes(t *testing.T) {
	cfg := testConfig(t, "world:\n  width: 1000\n  height: 1000\npopulation:\n  initial: 1\n  max: 4\n")
	g := NewGameWithOptions(Options{Seed: 9, Headless: true, Config: cfg})
	defer g.Unload()

	// Distance 50 from the drop point, well inside the scatter range.
	placeFish(g, 550, 500, 0)
	g.SpawnRipple(500, 500)
	g.UpdateHeadless()

	var base, max, velX float32
	g.ForEachFish(func(_ *components.Position, vel *components.Velocity, _ *components.Rotation, sw *components.Swimmer, _ *components.Spine) {
		base, max, velX = sw.BaseMaxSpeed, sw.MaxSpeed, vel.X
	})
	if max <= base+0.1 {
		t.Errorf("expected a scatter boost, max speed %v vs base %v", max, base)
	}
	if velX <= 0 {
		t.Errorf("expected an outward push, vel.X = %v", velX)
	}

	// The scatter window closes within a second; decay then snaps the boost
	// back to base well inside this budget.
	for i := 0; i < 600; i++ {
		g.UpdateHeadless()
	}
	g.ForEachFish(func(_ *components.Position, _ *components.Velocity, _ *components.Rotation, sw *components.Swimmer, _ *components.Spine) {
		base, max = sw.BaseMaxSpeed, sw.MaxSpeed
	})
	if max != base {
		t.Errorf("boost should have snapped back to base: max %v, base %v", max, base)
	}
}

// The chunked parallel compute must produce bit-identical intents to a single
// sequential pass over the same snapshots.
func TestParallelMatchesSequential(t *testing.T) {
	overlay := "world:\n  width: 1000\n  height: 1000\npopulation:\n  initial: 80\n  max: 120\n"
	cfg := testConfig(t, overlay)
	g := NewGameWithOptions(Options{Seed: 11, Headless: true, Config: cfg})
	defer g.Unload()

	// A couple of live ripples so the scatter path runs too.
	g.SpawnRipple(300, 200)
	g.SpawnRipple(900, 600)
	for i := 0; i < 5; i++ {
		g.UpdateHeadless()
	}

	// Phase A by hand: one snapshot set, frozen ripples, pre-drawn jitter.
	g.parallel.snapshots = g.parallel.snapshots[:0]
	g.parallel.ripples = g.ripples.Snapshot(g.parallel.ripples)
	query := g.fishFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vel, mot, rot, sw, _ := query.Get()
		jitter := (g.rng.Float32()*2 - 1) * g.steering.WanderJitter
		g.parallel.snapshots = append(g.parallel.snapshots, fishSnapshot{
			Entity:  entity,
			Pos:     *pos,
			Vel:     *vel,
			Mot:     *mot,
			Rot:     *rot,
			Swimmer: *sw,
			Jitter:  jitter,
		})
	}

	n := len(g.parallel.snapshots)
	if n < parallelThreshold {
		t.Fatalf("need at least %d fish to exercise the parallel path, got %d", parallelThreshold, n)
	}
	if cap(g.parallel.intents) < n {
		g.parallel.intents = make([]fishIntent, n)
	}
	g.parallel.intents = g.parallel.intents[:n]

	g.computeChunk(0, n)
	sequential := make([]fishIntent, n)
	copy(sequential, g.parallel.intents)

	for i := range g.parallel.intents {
		g.parallel.intents[i] = fishIntent{}
	}
	g.computeParallel(n)

	for i := range sequential {
		if sequential[i] != g.parallel.intents[i] {
			t.Fatalf("fish %d diverged between sequential and parallel compute:\nseq: %+v\npar: %+v",
				i, sequential[i], g.parallel.intents[i])
		}
	}
}

// Crossing the pond edge under the wrap policy must relocate the whole chain
// in the same tick: continuity exact, lengths untouched, body at the new spot.
func TestWrapKeepsChainIntact(t *testing.T) {
	overlay := "world:\n  width: 1000\n  height: 1000\n" +
		"boundary:\n  policy: wrap\n" +
		"population:\n  initial: 1\n  max: 4\n"
	cfg := testConfig(t, overlay)
	g := NewGameWithOptions(Options{Seed: 5, Headless: true, Config: cfg})
	defer g.Unload()

	placeFish(g, 999, 500, 0)

	var lengths []float32
	query := g.fishFilter.Query()
	for query.Next() {
		_, vel, _, _, sw, spine := query.Get()
		vel.X = sw.MaxSpeed
		for i := 0; i < int(spine.Count); i++ {
			lengths = append(lengths, spine.Links[i].Length)
		}
	}

	wrapped := false
	for i := 0; i < 10 && !wrapped; i++ {
		g.UpdateHeadless()
		g.ForEachFish(func(pos *components.Position, _ *components.Velocity, _ *components.Rotation, _ *components.Swimmer, _ *components.Spine) {
			wrapped = pos.X < 500
		})
	}
	if !wrapped {
		t.Fatal("fish never crossed the wrap boundary")
	}

	g.ForEachFish(func(pos *components.Position, _ *components.Velocity, _ *components.Rotation, _ *components.Swimmer, spine *components.Spine) {
		n := int(spine.Count)
		if head := spine.Links[0].Start(); head.Dist(pos.Vec()) > 1e-3 {
			t.Errorf("head detached from body after wrap: %v vs (%v, %v)", head, pos.X, pos.Y)
		}
		for i := 0; i < n; i++ {
			if spine.Links[i].Length != lengths[i] {
				t.Errorf("link %d length changed across wrap: %v vs %v", i, spine.Links[i].Length, lengths[i])
			}
			if i > 0 {
				if gap := spine.Links[i].Start().Dist(spine.Links[i-1].End()); gap > 1e-3 {
					t.Errorf("chain discontinuity after wrap at link %d: gap %v", i, gap)
				}
			}
		}
	})
}

// Stats windows flushed during headless runs must reach the callback with the
// activity of that window folded in.
func TestStatsWindowsReachCallback(t *testing.T) {
	cfg := testConfig(t, "population:\n  initial: 6\n  max: 16\n")

	var windows []telemetry.WindowStats
	g := NewGameWithOptions(Options{
		Seed:           5,
		Headless:       true,
		Config:         cfg,
		StatsWindowSec: 0.5,
		StatsCallback: func(w telemetry.WindowStats) {
			windows = append(windows, w)
		},
	})
	defer g.Unload()

	g.SpawnRipple(400, 300)
	for i := 0; i < 100; i++ {
		g.UpdateHeadless()
	}

	// 0.5s windows at 60tps flush every 30 ticks.
	if len(windows) < 3 {
		t.Fatalf("expected at least 3 stats windows in 100 ticks, got %d", len(windows))
	}
	if windows[0].FishCount != g.FishCount() {
		t.Errorf("window fish count %d, game has %d", windows[0].FishCount, g.FishCount())
	}
	if windows[0].RipplesSpawned != 1 {
		t.Errorf("spawned ripple not folded into the first window: %d", windows[0].RipplesSpawned)
	}
}

// The ripple cap holds at the game surface: excess spawns evict, never grow.
func TestRippleCapEnforced(t *testing.T) {
	cfg := testConfig(t, "")
	g := NewGameWithOptions(Options{Seed: 2, Headless: true, Config: cfg})
	defer g.Unload()

	for i := 0; i < 8; i++ {
		g.SpawnRipple(100+float32(i)*50, 400)
	}
	if n := len(g.ActiveRipples()); n != cfg.Ripple.MaxActive {
		t.Errorf("expected %d active ripples at the cap, got %d", cfg.Ripple.MaxActive, n)
	}
}

// Out-of-bounds taps are rejected without side effects.
func TestSpawnRippleOutOfBoundsRejected(t *testing.T) {
	cfg := testConfig(t, "")
	g := NewGameWithOptions(Options{Seed: 2, Headless: true, Config: cfg})
	defer g.Unload()

	g.SpawnRipple(-50, 400)
	g.SpawnRipple(400, 99999)
	if n := len(g.ActiveRipples()); n != 0 {
		t.Errorf("out-of-bounds spawns should be rejected, got %d ripples", n)
	}
}

// MaxFish caps the initial population below the configured size.
func TestMaxFishOptionCapsPopulation(t *testing.T) {
	cfg := testConfig(t, "population:\n  initial: 12\n  max: 64\n")
	g := NewGameWithOptions(Options{Seed: 1, Headless: true, Config: cfg, MaxFish: 3})
	defer g.Unload()

	if g.FishCount() != 3 {
		t.Errorf("expected 3 fish under MaxFish, got %d", g.FishCount())
	}
}

// Snapshot captures the live state: tick, world extent, and every fish.
func TestSnapshotReflectsState(t *testing.T) {
	cfg := testConfig(t, "population:\n  initial: 4\n  max: 8\n")
	g := NewGameWithOptions(Options{Seed: 6, Headless: true, Config: cfg})
	defer g.Unload()

	g.SpawnRipple(400, 300)
	for i := 0; i < 50; i++ {
		g.UpdateHeadless()
	}

	snap := g.Snapshot()
	if snap.Tick != g.Tick() {
		t.Errorf("snapshot tick %d, game tick %d", snap.Tick, g.Tick())
	}
	if len(snap.Fish) != g.FishCount() {
		t.Errorf("snapshot has %d fish, game has %d", len(snap.Fish), g.FishCount())
	}
	w, h := g.WorldSize()
	if snap.WorldWidth != w || snap.WorldHeight != h {
		t.Errorf("snapshot world %vx%v, game %vx%v", snap.WorldWidth, snap.WorldHeight, w, h)
	}
}
