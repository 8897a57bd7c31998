package game

import (
	"log/slog"
	"math"

	"github.com/Aete/koi-fish-animation/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	// Sample fish speeds for percentile calculation
	speeds, boostedFish := g.sampleFishSpeeds()

	// Flush the stats window
	stats := g.collector.Flush(g.tick, g.fishCount, g.ripples.Count(), speeds, boostedFish)
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		// Save snapshot on bookmark
		if g.snapshotDir != "" {
			g.saveSnapshot(string(bm.Type))
		}
	}
}

// sampleFishSpeeds collects per-fish speeds and counts how many fish are
// still carrying a scatter speed boost.
func (g *Game) sampleFishSpeeds() (speeds []float64, boostedFish int) {
	speeds = make([]float64, 0, g.fishCount)

	query := g.fishFilter.Query()
	for query.Next() {
		_, vel, _, _, sw, _ := query.Get()

		speed := math.Sqrt(float64(vel.X*vel.X + vel.Y*vel.Y))
		speeds = append(speeds, speed)

		if sw.MaxSpeed > sw.BaseMaxSpeed {
			boostedFish++
		}
	}

	return speeds, boostedFish
}

// saveSnapshot captures the current state and writes it to the snapshot dir.
func (g *Game) saveSnapshot(reason string) {
	snapshot := g.Snapshot()
	snapshot.Reason = reason

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// Snapshot builds a snapshot of the current state. Spine chains are not
// serialized; they rebuild from position and heading on the next tick.
func (g *Game) Snapshot() *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     g.rngSeed,
		WorldWidth:  g.worldWidth,
		WorldHeight: g.worldHeight,
		Tick:        g.tick,
	}

	var id uint32
	query := g.fishFilter.Query()
	for query.Next() {
		pos, vel, _, rot, sw, _ := query.Get()

		snapshot.Fish = append(snapshot.Fish, telemetry.FishState{
			ID:           id,
			X:            pos.X,
			Y:            pos.Y,
			VelX:         vel.X,
			VelY:         vel.Y,
			Heading:      rot.Heading,
			Size:         sw.Size,
			BaseMaxSpeed: sw.BaseMaxSpeed,
			MaxSpeed:     sw.MaxSpeed,
			MaxForce:     sw.MaxForce,
			WanderPhase:  sw.WanderPhase,
			SwimPhase:    sw.SwimPhase,
		})
		id++
	}

	for _, r := range g.ripples.Active() {
		snapshot.Ripples = append(snapshot.Ripples, telemetry.RippleState{
			X:         r.Center.X,
			Y:         r.Center.Y,
			Radius:    r.Radius,
			InitAmp:   r.InitAmp,
			MaxRadius: r.MaxRadius,
			Speed:     r.Speed,
			WaveWidth: r.WaveWidth,
		})
	}

	return snapshot
}
