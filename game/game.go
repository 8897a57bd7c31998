// Package game hosts the pond: it owns the ECS world, the ripple field,
// the per-tick update order, and the telemetry plumbing around them.
package game

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/Aete/koi-fish-animation/camera"
	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/geom"
	"github.com/Aete/koi-fish-animation/renderer"
	"github.com/Aete/koi-fish-animation/systems"
	"github.com/Aete/koi-fish-animation/telemetry"
	"github.com/Aete/koi-fish-animation/ui"
)

// Options configures game creation.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // "" = no CSV output
	SnapshotDir    string  // "" = no snapshots on bookmarks
	StepsPerUpdate int     // simulation ticks per update call, min 1
	MaxFish        int     // 0 = use config population

	// Config overrides the global configuration for this instance. The
	// calibration runner injects per-evaluation parameter sets this way.
	// nil = config.Cfg().
	Config *config.Config

	// StatsCallback receives every flushed stats window. Used by the
	// calibration runner to score runs without parsing CSV.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world ecs.World
	rng   *rand.Rand

	fishMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Motion,
		components.Rotation,
		components.Swimmer,
		components.Spine,
	]
	fishFilter *ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Motion,
		components.Rotation,
		components.Swimmer,
		components.Spine,
	]

	// Simulation systems. The params are plain values shared read-only by
	// the sequential and parallel tick paths; only the ripple field mutates,
	// and only in step 1 of the tick.
	ripples     *systems.RippleField
	water       systems.Water
	steering    systems.SteeringParams
	motion      systems.MotionParams
	spineParams systems.SpineParams

	// State
	tick           int64
	paused         bool
	stepsPerUpdate int
	fishCount      int
	maxFish        int
	rngSeed        int64

	// Viewport
	camera                    *camera.Camera
	screenWidth, screenHeight float32
	worldWidth, worldHeight   float32

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string
	tickSampleOpen   bool

	// Rendering (nil in headless mode)
	headless      bool
	waterRenderer *renderer.Water
	fishRenderer  *renderer.Fish
	rippleDrawer  *renderer.Ripples
	hud           *ui.HUD
	panel         *ui.Panel
	inspector     *ui.Inspector

	// Right-click fish selection
	selected     ecs.Entity
	hasSelection bool

	// Debug overlays
	debugMode        bool
	debugShowRipples bool
	debugShowSpines  bool
	debugShowVectors bool

	// Parallel tick path
	parallel *parallelState
}

// NewGameWithOptions creates a game with explicit options.
// config.Init must have been called first.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindowSec := opts.StatsWindowSec
	if statsWindowSec <= 0 {
		statsWindowSec = cfg.Telemetry.StatsWindow
	}
	maxFish := cfg.Population.Max
	if opts.MaxFish > 0 && opts.MaxFish < maxFish {
		maxFish = opts.MaxFish
	}

	g := &Game{
		cfg:            cfg,
		world:          ecs.NewWorld(),
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rngSeed:        opts.Seed,
		stepsPerUpdate: opts.StepsPerUpdate,
		maxFish:        maxFish,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
		worldWidth:     cfg.Derived.WorldW32,
		worldHeight:    cfg.Derived.WorldH32,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		statsCallback:  opts.StatsCallback,
		headless:       opts.Headless,
	}

	g.fishMapper = ecs.NewMap6[
		components.Position,
		components.Velocity,
		components.Motion,
		components.Rotation,
		components.Swimmer,
		components.Spine,
	](&g.world)
	g.fishFilter = ecs.NewFilter6[
		components.Position,
		components.Velocity,
		components.Motion,
		components.Rotation,
		components.Swimmer,
		components.Spine,
	](&g.world)

	bounds := systems.Bounds{Width: g.worldWidth, Height: g.worldHeight}
	g.ripples = systems.NewRippleField(cfg, bounds, g.rng)
	g.water = systems.NewWater(cfg)
	g.steering = systems.NewSteeringParams(cfg)
	g.motion = systems.NewMotionParams(cfg)
	g.spineParams = systems.NewSpineParams(cfg)

	g.collector = telemetry.NewCollector(statsWindowSec, cfg.Derived.DT32)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err, "dir", opts.OutputDir)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config snapshot", "error", err)
			}
		}
	}

	wrap := g.water.Policy() == systems.PolicyWrap
	g.camera = camera.New(g.screenWidth, g.screenHeight, g.worldWidth, g.worldHeight, wrap)

	if !opts.Headless {
		g.waterRenderer = renderer.NewWater(cfg)
		g.fishRenderer = renderer.NewFish(cfg)
		g.rippleDrawer = renderer.NewRipples()
		g.hud = ui.NewHUD(int32(g.screenWidth), int32(g.screenHeight))
		g.panel = ui.NewPanel(int32(g.screenWidth))
		g.inspector = ui.NewInspector(int32(g.screenWidth), int32(g.screenHeight))
	}

	g.parallel = newParallelState()

	g.spawnInitialPopulation()

	return g
}

// config returns this instance's configuration.
func (g *Game) config() *config.Config {
	return g.cfg
}

// spawnInitialPopulation places the starting fish.
func (g *Game) spawnInitialPopulation() {
	cfg := g.config()

	n := cfg.Population.Initial
	if n > g.maxFish {
		n = g.maxFish
	}

	for i := 0; i < n; i++ {
		x := g.rng.Float32() * g.worldWidth
		y := g.rng.Float32() * g.worldHeight
		heading := g.rng.Float32() * 2 * math.Pi
		g.spawnFish(x, y, heading)
	}
}

// spawnFish creates one fish with size and speed drawn from the configured
// ranges, a straight spine laid out behind it, and desynced swim phases.
func (g *Game) spawnFish(x, y, heading float32) ecs.Entity {
	cfg := g.config()

	size := float32(cfg.Fish.SizeMin) + g.rng.Float32()*float32(cfg.Fish.SizeMax-cfg.Fish.SizeMin)
	baseSpeed := float32(cfg.Fish.BaseSpeedMin) + g.rng.Float32()*float32(cfg.Fish.BaseSpeedMax-cfg.Fish.BaseSpeedMin)

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	mot := components.Motion{PrevX: x, PrevY: y}
	rot := components.Rotation{Heading: heading}
	sw := components.Swimmer{
		Size:         size,
		BaseMaxSpeed: baseSpeed,
		MaxSpeed:     baseSpeed,
		MaxForce:     float32(cfg.Fish.MaxForce),
		WanderPhase:  g.rng.Float32() * 2 * math.Pi,
		SwimPhase:    g.rng.Float32() * 2 * math.Pi,
		Seed:         g.rng.Uint32(),
	}
	var spine components.Spine
	systems.InitSpine(&spine, size, pos.Vec(), heading+math.Pi, g.spineParams)

	entity := g.fishMapper.NewEntity(&pos, &vel, &mot, &rot, &sw, &spine)
	g.fishCount++
	return entity
}

// SpawnRipple drops a disturbance at a world position. Out-of-bounds spawns
// are rejected and logged, never fatal.
func (g *Game) SpawnRipple(x, y float32) {
	evicted, err := g.ripples.Spawn(geom.Vec2{X: x, Y: y})
	if err != nil {
		slog.Warn("ripple rejected", "error", err)
		return
	}
	if evicted {
		g.collector.RecordRippleEvicted()
	}
	g.collector.RecordRippleSpawned()
}

// Update runs input handling and the configured number of simulation steps.
// The perf sample opened here spans the whole frame; Draw closes it.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}

	g.perfCollector.StartTick()
	g.tickSampleOpen = true
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs simulation steps without input or rendering.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
	g.perfCollector.EndTick()
}

// simulationStep runs a single tick in the fixed order: ripples first, so
// every fish reads the same post-update field; then fish forces and
// integration; then spines from the settled positions; telemetry last.
func (g *Game) simulationStep() {
	g.perfCollector.StartPhase(telemetry.PhaseRipples)
	expired := g.ripples.Update()
	if expired > 0 {
		g.collector.RecordRipplesExpired(expired)
	}
	g.collector.ObserveActiveRipples(g.ripples.Count())

	g.perfCollector.StartPhase(telemetry.PhaseBehaviorPhysics)
	g.updateFish()

	g.perfCollector.StartPhase(telemetry.PhaseSpine)
	g.updateSpines()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	g.flushTelemetry()
}

// updateSpines drives every chain one forward pass from its anchor.
// Facing is tail-ward, so heading plus pi.
func (g *Game) updateSpines() {
	query := g.fishFilter.Query()
	for query.Next() {
		pos, _, _, rot, sw, spine := query.Get()
		systems.FollowSpine(spine, pos.Vec(), rot.Heading+math.Pi, sw.SwimPhase, g.spineParams)
	}
}

// ForEachFish calls fn for every fish. Used by audits and tests; fn must not
// create or remove entities.
func (g *Game) ForEachFish(fn func(pos *components.Position, vel *components.Velocity, rot *components.Rotation, sw *components.Swimmer, spine *components.Spine)) {
	query := g.fishFilter.Query()
	for query.Next() {
		pos, vel, _, rot, sw, spine := query.Get()
		fn(pos, vel, rot, sw, spine)
	}
}

// ActiveRipples returns the live ripples, oldest first. Read-only.
func (g *Game) ActiveRipples() []systems.Ripple {
	return g.ripples.Active()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// FishCount returns the fish population.
func (g *Game) FishCount() int {
	return g.fishCount
}

// WorldSize returns the pond extent in world units.
func (g *Game) WorldSize() (w, h float32) {
	return g.worldWidth, g.worldHeight
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Unload releases workers, renderers, and open output files.
func (g *Game) Unload() {
	g.stopParallelWorkers()

	if g.waterRenderer != nil {
		g.waterRenderer.Unload()
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output files", "error", err)
		}
	}
}
