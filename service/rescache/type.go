package rescache

import (
	"time"

	"github.com/igentuman/TarkovBuddy/model"
)

// IService caches expensive analysis results keyed by a cheap perceptual
// fingerprint so visually identical frames are not reprocessed.
type IService interface {
	// Fingerprint derives the content key for a frame: its dimensions
	// plus the four corner pixels, hashed. Frames that agree on those
	// samples share a key even if interior pixels differ.
	Fingerprint(frame *model.Frame) string

	// TryGet returns the cached result for the frame's fingerprint. The
	// returned result is flagged as cache-derived. Hit/miss counters are
	// updated on every call.
	TryGet(frame *model.Frame) (*model.CachedResult, bool)

	// Insert stores a freshly computed result, evicting the oldest entry
	// first when at capacity. Re-inserting an existing fingerprint
	// overwrites in place.
	Insert(frame *model.Frame, result model.AnalysisResult, processingTime time.Duration)

	// Clear removes all entries but keeps the hit/miss counters.
	Clear()

	Stats() model.CacheStats
}
