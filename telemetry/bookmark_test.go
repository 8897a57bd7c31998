package telemetry

import (
	"testing"
)

func TestBookmarkDetector_RippleStorm(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Add some history with a slow drizzle of ripples
	for i := 0; i < 5; i++ {
		stats := WindowStats{
			WindowEndTick:  int64(i * 300),
			RipplesSpawned: 1,
		}
		bd.Check(stats)
	}

	// Now add a window with a spawn burst (>2x average)
	stormStats := WindowStats{
		WindowEndTick:  1500,
		RipplesSpawned: 6, // 6x the average of 1
	}
	bookmarks := bd.Check(stormStats)

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkRippleStorm {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected ripple_storm bookmark")
	}
}

func TestBookmarkDetector_StormFromCalm(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 300)})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1200, RipplesSpawned: 5})

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkRippleStorm {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected ripple_storm bookmark after calm history")
	}
}

func TestBookmarkDetector_PondSaturated(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 300, RipplesSpawned: 2})

	// Cap hit: evictions appear
	bookmarks := bd.Check(WindowStats{WindowEndTick: 600, RipplesSpawned: 8, RipplesEvicted: 3, ActiveRipples: 5})

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkPondSaturated {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected pond_saturated bookmark")
	}

	// Still saturated next window: latched, no repeat
	bookmarks = bd.Check(WindowStats{WindowEndTick: 900, RipplesEvicted: 2, ActiveRipples: 5})
	for _, bm := range bookmarks {
		if bm.Type == BookmarkPondSaturated {
			t.Error("pond_saturated should not re-trigger while latched")
		}
	}

	// Quiet window resets the latch
	bd.Check(WindowStats{WindowEndTick: 1200})
	bookmarks = bd.Check(WindowStats{WindowEndTick: 1500, RipplesEvicted: 1, ActiveRipples: 5})

	found = false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkPondSaturated {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected pond_saturated to trigger again after a quiet window")
	}
}

func TestBookmarkDetector_BoundaryPressure(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// History with mild clipping
	for i := 0; i < 5; i++ {
		stats := WindowStats{
			WindowEndTick: int64(i * 300),
			HeadingClips:  10,
		}
		bd.Check(stats)
	}

	// Clipping spike well past 2x average and the floor
	spikeStats := WindowStats{
		WindowEndTick: 1500,
		HeadingClips:  50,
		WrapEvents:    4,
	}
	bookmarks := bd.Check(spikeStats)

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkBoundaryPressure {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected boundary_pressure bookmark")
	}
}

func TestBookmarkDetector_CalmWater(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggers := 0
	for i := 0; i < 10; i++ {
		stats := WindowStats{
			WindowEndTick: int64(i * 300),
			FishCount:     12,
		}
		bookmarks := bd.Check(stats)
		for _, bm := range bookmarks {
			if bm.Type == BookmarkCalmWater {
				triggers++
			}
		}
	}

	// Should trigger exactly once at 5 consecutive still windows
	if triggers != 1 {
		t.Errorf("calm_water triggered %d times, want exactly 1", triggers)
	}
}

func TestBookmarkDetector_ActivityResetsCalm(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 300)})
	}
	// A disturbance breaks the streak before the fifth window
	bd.Check(WindowStats{WindowEndTick: 1200, RipplesSpawned: 1, ActiveRipples: 1})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1500})
	for _, bm := range bookmarks {
		if bm.Type == BookmarkCalmWater {
			t.Error("calm_water should not trigger after the streak was broken")
		}
	}
}
