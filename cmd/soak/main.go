// Package main provides a long-run stability check: a headless simulation
// that asserts the core motion invariants after every tick and exits nonzero
// on the first violation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/game"
	"github.com/Aete/koi-fish-animation/geom"
	"github.com/Aete/koi-fish-animation/telemetry"
)

const (
	// Positions and velocities are float32; chain joints are copied exactly,
	// so these tolerances only have to absorb formatting-level noise.
	continuityEps = 1e-3
	speedEps      = 1e-3
	lengthEps     = 1e-4
)

type violation struct {
	what string
	args []any
}

// checker holds per-run state for the invariant sweep.
type checker struct {
	boostCeil  float32 // multiple of base speed that MaxSpeed may reach
	boostDecay float32
	boostSnap  float32

	// Last observed radius/amplitude per ripple ID, for decay monotonicity.
	prevRadius map[uint64]float32
	prevAmp    map[uint64]float32
}

func newChecker(cfg *config.Config) *checker {
	return &checker{
		boostCeil:  float32(1.0 + cfg.Scatter.BoostCap),
		boostDecay: float32(cfg.Scatter.Decay),
		boostSnap:  float32(cfg.Scatter.Snap),
		prevRadius: make(map[uint64]float32),
		prevAmp:    make(map[uint64]float32),
	}
}

// speedBound is the largest speed a fish can legitimately carry at the end of
// a tick. Velocity is clamped against MaxSpeed before the boost decays, so
// the observed MaxSpeed must be projected back through one decay step (plus
// the snap allowance) before comparing.
func (c *checker) speedBound(sw *components.Swimmer) float32 {
	gap := sw.MaxSpeed - sw.BaseMaxSpeed
	return sw.BaseMaxSpeed + (gap+c.boostSnap)/(1-c.boostDecay)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// checkFish sweeps every fish for finite state, the speed bound, the boost
// ceiling, and spine chain integrity. Returns the first violation found.
func (c *checker) checkFish(g *game.Game) *violation {
	var v *violation
	g.ForEachFish(func(pos *components.Position, vel *components.Velocity, _ *components.Rotation, sw *components.Swimmer, spine *components.Spine) {
		if v != nil {
			return
		}
		if !finite(pos.X) || !finite(pos.Y) {
			v = &violation{"non-finite position", []any{"x", pos.X, "y", pos.Y}}
			return
		}
		if !finite(vel.X) || !finite(vel.Y) {
			v = &violation{"non-finite velocity", []any{"vx", vel.X, "vy", vel.Y}}
			return
		}

		speed := geom.Vec2{X: vel.X, Y: vel.Y}.Len()
		if bound := c.speedBound(sw); speed > bound+speedEps {
			v = &violation{"speed exceeds max", []any{"speed", speed, "bound", bound, "max", sw.MaxSpeed}}
			return
		}
		if sw.MaxSpeed < sw.BaseMaxSpeed-speedEps {
			v = &violation{"max speed below base", []any{"max", sw.MaxSpeed, "base", sw.BaseMaxSpeed}}
			return
		}
		if ceil := sw.BaseMaxSpeed * c.boostCeil; sw.MaxSpeed > ceil+speedEps {
			v = &violation{"max speed above boost ceiling", []any{"max", sw.MaxSpeed, "ceiling", ceil}}
			return
		}

		if vv := checkSpine(spine); vv != nil {
			v = vv
		}
	})
	return v
}

// checkSpine verifies every link is finite, lengths match the spawn-time
// value, and each link starts exactly where the previous one ends.
func checkSpine(spine *components.Spine) *violation {
	n := int(spine.Count)
	if n < 1 || n > components.MaxLinks {
		return &violation{"link count out of range", []any{"count", n}}
	}

	ref := spine.Links[0].Length
	for i := 0; i < n; i++ {
		l := spine.Links[i]
		if !finite(l.X) || !finite(l.Y) || !finite(l.Angle) || !finite(l.Length) {
			return &violation{"non-finite link", []any{"link", i}}
		}
		if l.Length <= 0 || geom.Abs(l.Length-ref) > lengthEps {
			return &violation{"link length drifted", []any{"link", i, "length", l.Length, "ref", ref}}
		}
		if i > 0 {
			gap := spine.Links[i].Start().Dist(spine.Links[i-1].End())
			if gap > continuityEps {
				return &violation{"chain discontinuity", []any{"link", i, "gap", gap}}
			}
		}
	}
	return nil
}

// checkRipples verifies every live ripple stays finite, inside its max
// radius, and decays monotonically: radius never shrinks and amplitude never
// grows for the same ripple ID.
func (c *checker) checkRipples(g *game.Game) *violation {
	ripples := g.ActiveRipples()

	seen := make(map[uint64]struct{}, len(ripples))
	for _, r := range ripples {
		seen[r.ID] = struct{}{}

		if !finite(r.Radius) || !finite(r.Amplitude) {
			return &violation{"non-finite ripple", []any{"id", r.ID}}
		}
		if r.Amplitude < 0 {
			return &violation{"negative ripple amplitude", []any{"id", r.ID, "amplitude", r.Amplitude}}
		}
		if r.Radius > r.MaxRadius+speedEps {
			return &violation{"ripple past max radius", []any{"id", r.ID, "radius", r.Radius, "max", r.MaxRadius}}
		}

		if prev, ok := c.prevRadius[r.ID]; ok {
			if r.Radius < prev {
				return &violation{"ripple radius shrank", []any{"id", r.ID, "radius", r.Radius, "prev", prev}}
			}
			if r.Amplitude > c.prevAmp[r.ID]+speedEps {
				return &violation{"ripple amplitude grew", []any{"id", r.ID, "amplitude", r.Amplitude, "prev", c.prevAmp[r.ID]}}
			}
		}
		c.prevRadius[r.ID] = r.Radius
		c.prevAmp[r.ID] = r.Amplitude
	}

	// Drop expired IDs so the maps stay small over long runs.
	for id := range c.prevRadius {
		if _, ok := seen[id]; !ok {
			delete(c.prevRadius, id)
			delete(c.prevAmp, id)
		}
	}
	return nil
}

func main() {
	configPath := flag.String("config", "", "Path to config YAML file (empty = use defaults)")
	ticks := flag.Int64("ticks", 100000, "Number of simulation ticks to run")
	seed := flag.Int64("seed", 1, "Random seed")
	rippleEvery := flag.Int64("ripple-every", 180, "Drop a ripple every N ticks (0 = never)")
	snapshotDir := flag.String("snapshot-dir", "soak_out", "Directory for the failure snapshot")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	g := game.NewGameWithOptions(game.Options{
		Seed:           *seed,
		Headless:       true,
		StepsPerUpdate: 1,
	})
	defer g.Unload()

	chk := newChecker(config.Cfg())
	worldW, worldH := g.WorldSize()
	rng := rand.New(rand.NewSource(*seed ^ 0x50af))

	slog.Info("starting soak run",
		"ticks", *ticks,
		"seed", *seed,
		"fish", g.FishCount(),
		"ripple_every", *rippleEvery)

	start := time.Now()
	ripplesDropped := 0

	for g.Tick() < *ticks {
		g.UpdateHeadless()

		if *rippleEvery > 0 && g.Tick()%*rippleEvery == 0 {
			g.SpawnRipple(rng.Float32()*worldW, rng.Float32()*worldH)
			ripplesDropped++
		}

		v := chk.checkFish(g)
		if v == nil {
			v = chk.checkRipples(g)
		}
		if v != nil {
			args := append([]any{"tick", g.Tick()}, v.args...)
			slog.Error("invariant violated: "+v.what, args...)

			snap := g.Snapshot()
			snap.Reason = "soak_violation"
			if path, err := telemetry.SaveSnapshot(snap, *snapshotDir); err != nil {
				slog.Error("failed to save failure snapshot", "error", err)
			} else {
				slog.Info("failure snapshot saved", "path", path)
			}
			os.Exit(1)
		}
	}

	elapsed := time.Since(start)
	perSec := float64(*ticks) / elapsed.Seconds()
	slog.Info("soak run passed",
		"ticks", *ticks,
		"elapsed", elapsed.Round(time.Millisecond).String(),
		"ticks_per_sec", fmt.Sprintf("%.0f", perSec),
		"fish", g.FishCount(),
		"ripples_dropped", ripplesDropped)
}
