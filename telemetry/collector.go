// Package telemetry aggregates simulation events into fixed time
// windows and writes them to structured logs and CSV files.
package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float32

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	ripplesSpawned  int
	ripplesExpired  int
	ripplesEvicted  int
	scatterImpulses int
	headingClips    int
	wrapEvents      int
	peakRipples     int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int64(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		windowStartTick:     0,
	}
}

// RecordRippleSpawned records a new ripple entering the pond.
func (c *Collector) RecordRippleSpawned() {
	c.ripplesSpawned++
}

// RecordRipplesExpired records n ripples that finished expanding this tick.
func (c *Collector) RecordRipplesExpired(n int) {
	c.ripplesExpired += n
}

// RecordRippleEvicted records the oldest ripple being dropped to make
// room for a new one.
func (c *Collector) RecordRippleEvicted() {
	c.ripplesEvicted++
}

// RecordScatterImpulses records n scatter forces applied to fish this tick.
func (c *Collector) RecordScatterImpulses(n int) {
	c.scatterImpulses += n
}

// RecordHeadingClips records n turns that hit the per-tick turn rate limit.
func (c *Collector) RecordHeadingClips(n int) {
	c.headingClips += n
}

// RecordWrapEvents records n fish carried across the world seam.
func (c *Collector) RecordWrapEvents(n int) {
	c.wrapEvents += n
}

// ObserveActiveRipples tracks the peak concurrent ripple count within
// the window.
func (c *Collector) ObserveActiveRipples(n int) {
	if n > c.peakRipples {
		c.peakRipples = n
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller must provide:
// - currentTick: the current simulation tick
// - fishCount: current fish population
// - activeRipples: ripple count at the window end
// - speeds: fish speed samples for percentile calculation
// - boostedFish: fish currently swimming above their base speed ceiling
func (c *Collector) Flush(
	currentTick int64,
	fishCount int,
	activeRipples int,
	speeds []float64,
	boostedFish int,
) WindowStats {
	speedMean, speedP10, speedP50, speedP90, speedMax := ComputeSpeedStats(speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		FishCount: fishCount,

		ActiveRipples:   activeRipples,
		PeakRipples:     c.peakRipples,
		RipplesSpawned:  c.ripplesSpawned,
		RipplesExpired:  c.ripplesExpired,
		RipplesEvicted:  c.ripplesEvicted,
		ScatterImpulses: c.scatterImpulses,

		HeadingClips: c.headingClips,
		WrapEvents:   c.wrapEvents,
		BoostedFish:  boostedFish,

		SpeedMean: speedMean,
		SpeedP10:  speedP10,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,
		SpeedMax:  speedMax,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.ripplesSpawned = 0
	c.ripplesExpired = 0
	c.ripplesEvicted = 0
	c.scatterImpulses = 0
	c.headingClips = 0
	c.wrapEvents = 0
	c.peakRipples = activeRipples

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
