package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkRippleStorm      BookmarkType = "ripple_storm"
	BookmarkPondSaturated    BookmarkType = "pond_saturated"
	BookmarkBoundaryPressure BookmarkType = "boundary_pressure"
	BookmarkCalmWater        BookmarkType = "calm_water"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType
	Tick        int64
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// Spawn count below which a burst of ripples is not worth flagging.
const stormSpawnFloor = 4

// BookmarkDetector detects interesting moments in the pond.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	saturated        bool // pond at ripple capacity, reset on a quiet window
	calmWindowsCount int  // consecutive windows with still water
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for calm water detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Ripple storm: spawn count > 2x rolling average
		if b := bd.checkRippleStorm(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Pond saturated: ripple cap hit after a period under it
		if b := bd.checkPondSaturated(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Boundary pressure: turn-rate clipping > 2x rolling average
		if b := bd.checkBoundaryPressure(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Calm water: no disturbances over 5+ windows
		if b := bd.checkCalmWater(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Update history
	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkRippleStorm(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	// Calculate rolling average spawn count
	var totalSpawns int
	for _, h := range history {
		totalSpawns += h.RipplesSpawned
	}
	avgSpawns := float64(totalSpawns) / float64(len(history))

	current := stats.RipplesSpawned
	if current < stormSpawnFloor {
		return nil
	}

	if avgSpawns == 0 {
		return &Bookmark{
			Type:        BookmarkRippleStorm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d ripples spawned after calm water", current),
		}
	}

	if float64(current) > avgSpawns*2.0 {
		return &Bookmark{
			Type:        BookmarkRippleStorm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d ripples spawned is %.1fx average (%.1f)", current, float64(current)/avgSpawns, avgSpawns),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPondSaturated(stats WindowStats) *Bookmark {
	if stats.RipplesEvicted == 0 {
		// Quiet window resets the latch so a later saturation triggers again
		bd.saturated = false
		return nil
	}

	if bd.saturated {
		return nil
	}
	bd.saturated = true

	return &Bookmark{
		Type:        BookmarkPondSaturated,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Ripple cap hit, %d evicted with %d active", stats.RipplesEvicted, stats.ActiveRipples),
	}
}

func (bd *BookmarkDetector) checkBoundaryPressure(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalClips int
	for _, h := range history {
		totalClips += h.HeadingClips
	}
	avgClips := float64(totalClips) / float64(len(history))

	if avgClips == 0 || stats.HeadingClips < 30 {
		return nil
	}

	if float64(stats.HeadingClips) > avgClips*2.0 {
		return &Bookmark{
			Type:        BookmarkBoundaryPressure,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d clipped turns is %.1fx average (%.1f), %d wraps", stats.HeadingClips, float64(stats.HeadingClips)/avgClips, avgClips, stats.WrapEvents),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkCalmWater(stats WindowStats) *Bookmark {
	still := stats.RipplesSpawned == 0 && stats.ActiveRipples == 0 && stats.ScatterImpulses == 0
	if !still {
		bd.calmWindowsCount = 0
		return nil
	}

	bd.calmWindowsCount++
	if bd.calmWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkCalmWater,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Still water with %d fish over 5+ windows", stats.FishCount),
		}
	}

	return nil
}
