package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/game"
	"github.com/Aete/koi-fish-animation/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu           sync.Mutex
	bestFitness  float64
	bestSnapshot *telemetry.Snapshot
	lastQuality  float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 5.0, // 5 seconds per window
		bestFitness: math.Inf(1),
	}
}

// BestSnapshot returns the end-of-run snapshot from the best evaluation.
func (fe *FitnessEvaluator) BestSnapshot() *telemetry.Snapshot {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSnapshot
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

const (
	// Coverage grid: cells any fish passes through during a run count toward
	// the coverage score. 16x10 keeps cells roughly square on the default pond.
	coverageCols        = 16
	coverageRows        = 10
	coverageSampleTicks = 30

	// A ripple dropped at a seeded position every few seconds keeps the
	// scatter parameters observable during a calibration run.
	rippleEveryTicks = 240
)

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	coverage    float64                 // fraction of grid cells visited
	snapshot    *telemetry.Snapshot
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	quality  float64
	snapshot *telemetry.Snapshot
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Runs are fixed length, so fitness is simply negative motion quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := fe.computeQuality(result)
			results[idx] = seedResult{
				fitness:  -quality,
				quality:  quality,
				snapshot: result.snapshot,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	fitnesses := make([]float64, len(results))
	qualities := make([]float64, len(results))
	var bestSeedFitness float64 = math.Inf(1)
	var bestSeedSnapshot *telemetry.Snapshot

	for i, r := range results {
		fitnesses[i] = r.fitness
		qualities[i] = r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedSnapshot = r.snapshot
		}
	}

	avgFitness := stat.Mean(fitnesses, nil)

	// Update best tracking
	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestSnapshot = bestSeedSnapshot
	}
	fe.lastQuality = stat.Mean(qualities, nil)
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run of maxTicks ticks,
// dropping seeded ripples along the way and sampling pond coverage.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	// Create a fresh config copy and apply parameters
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	// Create and run game, collecting window stats via callback
	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})

	worldW, worldH := g.WorldSize()
	visited := make([]bool, coverageCols*coverageRows)
	rng := rand.New(rand.NewSource(seed ^ 0x6b6f69))

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()

		tick := g.Tick()
		if tick%rippleEveryTicks == 0 {
			g.SpawnRipple(rng.Float32()*worldW, rng.Float32()*worldH)
		}
		if tick%coverageSampleTicks == 0 {
			markCoverage(g, visited, worldW, worldH)
		}
	}

	result.coverage = coverageScore(visited)
	result.snapshot = g.Snapshot()
	g.Unload()
	return result
}

// markCoverage flags the grid cell under every fish.
func markCoverage(g *game.Game, visited []bool, worldW, worldH float32) {
	g.ForEachFish(func(pos *components.Position, _ *components.Velocity, _ *components.Rotation, _ *components.Swimmer, _ *components.Spine) {
		cx := int(pos.X / worldW * coverageCols)
		cy := int(pos.Y / worldH * coverageRows)
		if cx < 0 {
			cx = 0
		} else if cx >= coverageCols {
			cx = coverageCols - 1
		}
		if cy < 0 {
			cy = 0
		} else if cy >= coverageRows {
			cy = coverageRows - 1
		}
		visited[cy*coverageCols+cx] = true
	})
}

// coverageScore returns the fraction of grid cells visited.
func coverageScore(visited []bool) float64 {
	count := 0
	for _, v := range visited {
		if v {
			count++
		}
	}
	return float64(count) / float64(len(visited))
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	// Load fresh defaults and copy base values
	cfg, _ := config.Load("")

	cfg.Screen = fe.baseConfig.Screen
	cfg.World = fe.baseConfig.World
	cfg.Population = fe.baseConfig.Population
	cfg.Fish = fe.baseConfig.Fish
	cfg.Steering = fe.baseConfig.Steering
	cfg.Scatter = fe.baseConfig.Scatter
	cfg.Ripple = fe.baseConfig.Ripple
	cfg.Boundary = fe.baseConfig.Boundary
	cfg.Water = fe.baseConfig.Water
	cfg.Spine = fe.baseConfig.Spine
	cfg.Render = fe.baseConfig.Render
	cfg.Telemetry = fe.baseConfig.Telemetry
	cfg.Derived = fe.baseConfig.Derived

	return cfg
}

// Quality component weights.
const (
	qualityWeightCoverage    = 0.35
	qualityWeightCalm        = 0.25
	qualityWeightContainment = 0.25
	qualityWeightSpeed       = 0.15

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality computes motion quality in [0, 1] from a finished run.
// Coverage rewards fish that roam the whole pond; calm penalizes heading-rate
// clipping; containment penalizes outer-margin escapes; speed health rewards
// cruising near the population's base speed without churning.
func (fe *FitnessEvaluator) computeQuality(r *runResult) float64 {
	if len(r.windowStats) <= qualityWarmupWindows {
		return 0
	}

	valid := r.windowStats[qualityWarmupWindows:]

	clipRates := make([]float64, 0, len(valid))
	wrapRates := make([]float64, 0, len(valid))
	speedMeans := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.FishCount == 0 {
			continue
		}
		n := float64(w.FishCount)
		clipRates = append(clipRates, float64(w.HeadingClips)/n)
		wrapRates = append(wrapRates, float64(w.WrapEvents)/n)
		speedMeans = append(speedMeans, w.SpeedMean)
	}

	// No valid windows, zero quality
	if len(speedMeans) == 0 {
		return 0
	}

	// 1. Calm: heading clips per fish per window. ~30 clips over a 300-tick
	// window (one tick in ten) halves the score's e-fold.
	calmScore := math.Exp(-stat.Mean(clipRates, nil) / 30.0)

	// 2. Containment: outer-margin wraps per fish per window should be rare.
	containScore := math.Exp(-stat.Mean(wrapRates, nil) / 0.5)

	// 3. Speed health: mean speed near the mid base speed, without large
	// window-to-window churn.
	cruise := (fe.baseConfig.Fish.BaseSpeedMin + fe.baseConfig.Fish.BaseSpeedMax) / 2.0
	meanSpeed := stat.Mean(speedMeans, nil)
	dev := (meanSpeed - cruise) / (0.5 * cruise)
	speedScore := math.Exp(-dev * dev)
	if len(speedMeans) >= 2 {
		cv := stat.StdDev(speedMeans, nil) / cruise
		speedScore *= math.Exp(-cv * cv)
	}

	quality := qualityWeightCoverage*r.coverage +
		qualityWeightCalm*calmScore +
		qualityWeightContainment*containScore +
		qualityWeightSpeed*speedScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
