package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	FishCount int `csv:"fish"`

	// Ripple activity during the window
	ActiveRipples   int `csv:"ripples_active"`
	PeakRipples     int `csv:"ripples_peak"`
	RipplesSpawned  int `csv:"ripples_spawned"`
	RipplesExpired  int `csv:"ripples_expired"`
	RipplesEvicted  int `csv:"ripples_evicted"`
	ScatterImpulses int `csv:"scatter_impulses"`

	// Locomotion events during the window
	HeadingClips int `csv:"heading_clips"`
	WrapEvents   int `csv:"wrap_events"`
	BoostedFish  int `csv:"boosted_fish"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, percentiles, and max from speed samples.
func ComputeSpeedStats(values []float64) (mean, p10, p50, p90, max float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
		if v > max {
			max = v
		}
	}
	mean = sum / float64(n)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("fish", s.FishCount),
		slog.Int("ripples_active", s.ActiveRipples),
		slog.Int("ripples_peak", s.PeakRipples),
		slog.Int("ripples_spawned", s.RipplesSpawned),
		slog.Int("ripples_expired", s.RipplesExpired),
		slog.Int("ripples_evicted", s.RipplesEvicted),
		slog.Int("scatter_impulses", s.ScatterImpulses),
		slog.Int("heading_clips", s.HeadingClips),
		slog.Int("wrap_events", s.WrapEvents),
		slog.Int("boosted_fish", s.BoostedFish),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"fish", s.FishCount,
		"ripples_active", s.ActiveRipples,
		"ripples_peak", s.PeakRipples,
		"ripples_spawned", s.RipplesSpawned,
		"ripples_expired", s.RipplesExpired,
		"ripples_evicted", s.RipplesEvicted,
		"scatter_impulses", s.ScatterImpulses,
		"heading_clips", s.HeadingClips,
		"wrap_events", s.WrapEvents,
		"boosted_fish", s.BoostedFish,
		"speed_mean", s.SpeedMean,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
	)
}
