package rescache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/igentuman/TarkovBuddy/model"
)

// cacheFrame builds a small frame whose corner pixels carry the given seed,
// so distinct seeds produce distinct fingerprints.
func cacheFrame(t *testing.T, seed byte) *model.Frame {
	t.Helper()
	const width, height = 4, 4
	pixels := make([]byte, width*4*height)
	for _, corner := range []int{0, (width - 1) * 4, (height - 1) * width * 4, (height-1)*width*4 + (width-1)*4} {
		pixels[corner] = seed
	}
	frame, err := model.NewFrame(width, height, width*4, pixels)
	require.NoError(t, err)
	return frame
}

// steppingClock returns a now() that advances one second per call, keeping
// cachedAt ordering deterministic without sleeping.
func steppingClock() func() time.Time {
	base := time.Unix(1700000000, 0)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestCacheHitReturnsStoredResult(t *testing.T) {
	cache := NewMemory(10)
	frame := cacheFrame(t, 1)

	result := model.AnalysisResult{Text: "found in raid", Confidence: 0.93}
	cache.Insert(frame, result, 120*time.Millisecond)

	cached, ok := cache.TryGet(frame)
	require.True(t, ok)
	require.Equal(t, "found in raid", cached.Result.Text)
	require.Equal(t, 0.93, cached.Result.Confidence)
	require.True(t, cached.Result.WasFromCache)
	require.Equal(t, 120*time.Millisecond, cached.ProcessingTime)
	require.EqualValues(t, 1, cached.AccessCount)
}

func TestCacheMissForUnknownImage(t *testing.T) {
	cache := NewMemory(10)
	cache.Insert(cacheFrame(t, 1), model.AnalysisResult{Text: "a"}, 0)

	cached, ok := cache.TryGet(cacheFrame(t, 2))
	require.False(t, ok)
	require.Nil(t, cached)

	stats := cache.Stats()
	require.EqualValues(t, 0, stats.Hits)
	require.EqualValues(t, 1, stats.Misses)
}

func TestFingerprintIgnoresInteriorPixels(t *testing.T) {
	cache := NewMemory(10)

	a := cacheFrame(t, 5)
	b := cacheFrame(t, 5)
	// Perturb an interior pixel only; the corner-sampled fingerprint is
	// intentionally blind to it
	b.Pixels[1*b.Stride+1*4] = 0xee

	require.Equal(t, cache.Fingerprint(a), cache.Fingerprint(b))

	cache.Insert(a, model.AnalysisResult{Text: "same"}, 0)
	cached, ok := cache.TryGet(b)
	require.True(t, ok)
	require.Equal(t, "same", cached.Result.Text)
}

func TestFingerprintVariesWithDimensions(t *testing.T) {
	cache := NewMemory(10)

	small, err := model.NewFrame(2, 2, 8, make([]byte, 32))
	require.NoError(t, err)
	big, err := model.NewFrame(3, 3, 12, make([]byte, 108))
	require.NoError(t, err)

	require.NotEqual(t, cache.Fingerprint(small), cache.Fingerprint(big))
}

func TestCacheEvictsOldestAtCapacity(t *testing.T) {
	cache := NewMemory(2).(*memoryService)
	cache.now = steppingClock()

	first := cacheFrame(t, 1)
	cache.Insert(first, model.AnalysisResult{Text: "first"}, 0)
	cache.Insert(cacheFrame(t, 2), model.AnalysisResult{Text: "second"}, 0)
	cache.Insert(cacheFrame(t, 3), model.AnalysisResult{Text: "third"}, 0)

	stats := cache.Stats()
	require.LessOrEqual(t, stats.CachedItems, 2)

	// The oldest entry is gone; the two newer ones survive
	_, ok := cache.TryGet(first)
	require.False(t, ok)
	_, ok = cache.TryGet(cacheFrame(t, 2))
	require.True(t, ok)
	_, ok = cache.TryGet(cacheFrame(t, 3))
	require.True(t, ok)
}

func TestCacheOverwriteSameFingerprintDoesNotGrow(t *testing.T) {
	cache := NewMemory(5)
	frame := cacheFrame(t, 7)

	cache.Insert(frame, model.AnalysisResult{Text: "old"}, 0)
	cache.Insert(frame, model.AnalysisResult{Text: "new"}, 0)

	require.Equal(t, 1, cache.Stats().CachedItems)

	cached, ok := cache.TryGet(frame)
	require.True(t, ok)
	require.Equal(t, "new", cached.Result.Text)
}

func TestCacheMaxSizeIsClampedToOne(t *testing.T) {
	cache := NewMemory(0).(*memoryService)
	cache.now = steppingClock()

	cache.Insert(cacheFrame(t, 1), model.AnalysisResult{Text: "a"}, 0)
	cache.Insert(cacheFrame(t, 2), model.AnalysisResult{Text: "b"}, 0)

	require.Equal(t, 1, cache.Stats().CachedItems)
	_, ok := cache.TryGet(cacheFrame(t, 2))
	require.True(t, ok)
}

func TestCacheHitRateMath(t *testing.T) {
	cache := NewMemory(10)
	require.Zero(t, cache.Stats().HitRate)

	frame := cacheFrame(t, 1)
	cache.Insert(frame, model.AnalysisResult{}, 0)

	// 3 hits, 1 miss
	for i := 0; i < 3; i++ {
		_, ok := cache.TryGet(frame)
		require.True(t, ok)
	}
	_, ok := cache.TryGet(cacheFrame(t, 9))
	require.False(t, ok)

	stats := cache.Stats()
	require.EqualValues(t, 3, stats.Hits)
	require.EqualValues(t, 1, stats.Misses)
	require.InDelta(t, 0.75, stats.HitRate, 1e-9)
}

func TestCacheClearKeepsCounters(t *testing.T) {
	cache := NewMemory(10)
	frame := cacheFrame(t, 1)
	cache.Insert(frame, model.AnalysisResult{}, 0)
	_, _ = cache.TryGet(frame)
	_, _ = cache.TryGet(cacheFrame(t, 2))

	cache.Clear()

	stats := cache.Stats()
	require.Zero(t, stats.CachedItems)
	require.EqualValues(t, 1, stats.Hits)
	require.EqualValues(t, 1, stats.Misses)

	_, ok := cache.TryGet(frame)
	require.False(t, ok)
}

func TestCacheAccessCountIncrements(t *testing.T) {
	cache := NewMemory(10)
	frame := cacheFrame(t, 1)
	cache.Insert(frame, model.AnalysisResult{}, 0)

	for want := uint64(1); want <= 3; want++ {
		cached, ok := cache.TryGet(frame)
		require.True(t, ok)
		require.Equal(t, want, cached.AccessCount)
	}
}

func TestCacheConcurrentGetInsert(t *testing.T) {
	cache := NewMemory(16)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				frame := cacheFrame(t, byte(i%32))
				if w%2 == 0 {
					cache.Insert(frame, model.AnalysisResult{Text: fmt.Sprintf("w%d", w)}, 0)
				} else {
					cache.TryGet(frame)
				}
			}
		}(w)
	}
	wg.Wait()

	stats := cache.Stats()
	require.LessOrEqual(t, stats.CachedItems, 16)
	require.EqualValues(t, 4*200, stats.Hits+stats.Misses)
}
