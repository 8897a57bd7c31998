package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	mean, p10, p50, p90, max := ComputeSpeedStats(values)

	// Mean should be 0.55
	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}

	// P10 should be around 0.19
	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}

	// P50 should be around 0.55
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}

	// P90 should be around 0.91
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}

	if max != 1.0 {
		t.Errorf("max = %v, want 1.0", max)
	}
}

func TestComputeSpeedStatsEmpty(t *testing.T) {
	mean, p10, p50, p90, max := ComputeSpeedStats([]float64{})

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 || max != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorWindowing(t *testing.T) {
	// 0.5s windows at 60 ticks/sec -> 30 ticks per window
	c := NewCollector(0.5, 1.0/60.0)

	if c.WindowDurationTicks() != 30 {
		t.Fatalf("window ticks = %d, want 30", c.WindowDurationTicks())
	}

	if c.ShouldFlush(29) {
		t.Error("should not flush before window boundary")
	}
	if !c.ShouldFlush(30) {
		t.Error("should flush at window boundary")
	}

	c.RecordRippleSpawned()
	c.RecordRippleSpawned()
	c.RecordRipplesExpired(1)
	c.RecordRippleEvicted()
	c.RecordScatterImpulses(7)
	c.RecordHeadingClips(3)
	c.RecordWrapEvents(2)
	c.ObserveActiveRipples(4)
	c.ObserveActiveRipples(2)

	speeds := []float64{1.0, 2.0, 3.0}
	stats := c.Flush(30, 12, 2, speeds, 5)

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 30 {
		t.Errorf("window bounds = [%d, %d], want [0, 30]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if math.Abs(stats.SimTimeSec-0.5) > 0.001 {
		t.Errorf("sim time = %v, want 0.5", stats.SimTimeSec)
	}
	if stats.FishCount != 12 {
		t.Errorf("fish = %d, want 12", stats.FishCount)
	}
	if stats.RipplesSpawned != 2 || stats.RipplesExpired != 1 || stats.RipplesEvicted != 1 {
		t.Errorf("ripple counters = %d/%d/%d, want 2/1/1",
			stats.RipplesSpawned, stats.RipplesExpired, stats.RipplesEvicted)
	}
	if stats.ScatterImpulses != 7 {
		t.Errorf("scatter impulses = %d, want 7", stats.ScatterImpulses)
	}
	if stats.HeadingClips != 3 || stats.WrapEvents != 2 {
		t.Errorf("heading clips/wraps = %d/%d, want 3/2", stats.HeadingClips, stats.WrapEvents)
	}
	if stats.PeakRipples != 4 {
		t.Errorf("peak ripples = %d, want 4", stats.PeakRipples)
	}
	if stats.BoostedFish != 5 {
		t.Errorf("boosted fish = %d, want 5", stats.BoostedFish)
	}
	if math.Abs(stats.SpeedMean-2.0) > 0.001 {
		t.Errorf("speed mean = %v, want 2.0", stats.SpeedMean)
	}
	if stats.SpeedMax != 3.0 {
		t.Errorf("speed max = %v, want 3.0", stats.SpeedMax)
	}
}

func TestCollectorFlushResetsCounters(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	c.RecordRippleSpawned()
	c.RecordScatterImpulses(10)
	c.RecordHeadingClips(4)
	c.ObserveActiveRipples(5)
	c.Flush(60, 10, 1, nil, 0)

	// Second window starts clean; peak seeds from the carry-over count.
	stats := c.Flush(120, 10, 1, nil, 0)

	if stats.WindowStartTick != 60 {
		t.Errorf("window start = %d, want 60", stats.WindowStartTick)
	}
	if stats.RipplesSpawned != 0 || stats.ScatterImpulses != 0 || stats.HeadingClips != 0 {
		t.Error("counters should reset between windows")
	}
	if stats.PeakRipples != 1 {
		t.Errorf("peak ripples = %d, want 1 (carried from active count)", stats.PeakRipples)
	}
}
