package mode

import (
	"github.com/fatih/color"

	"github.com/igentuman/TarkovBuddy/model"
)

var (
	statsHeader = color.New(color.FgCyan, color.Bold)
	statsGood   = color.New(color.FgGreen)
	statsWarn   = color.New(color.FgYellow)
	statsBad    = color.New(color.FgRed)
)

// displayStats prints a periodic console summary of capture throughput and
// cache effectiveness. Structured logs carry the same numbers; this is the
// at-a-glance view for a live session.
func displayStats(capture model.CaptureStats, cache model.CacheStats) {
	statsHeader.Printf("── capture session %s ──\n", capture.SessionID)

	line := statsGood
	if capture.Errors > 0 {
		line = statsWarn
	}
	line.Printf("  frames: %d  fps: %.1f  dropped: %d  errors: %d  uptime: %ds\n",
		capture.Frames, capture.FPS, capture.Dropped, capture.Errors, capture.Uptime)

	cacheLine := statsGood
	switch {
	case cache.Hits+cache.Misses == 0:
		cacheLine = statsWarn
	case cache.HitRate < 0.25:
		cacheLine = statsBad
	case cache.HitRate < 0.5:
		cacheLine = statsWarn
	}
	cacheLine.Printf("  cache: %d items  hits: %d  misses: %d  hit rate: %.1f%%\n",
		cache.CachedItems, cache.Hits, cache.Misses, cache.HitRate*100)
}
