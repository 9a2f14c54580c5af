package rescache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/igentuman/TarkovBuddy/model"
	"github.com/igentuman/TarkovBuddy/service/lgr"
)

type entry struct {
	fingerprint    string
	result         model.AnalysisResult
	processingTime time.Duration
	cachedAt       time.Time
	accessCount    atomic.Uint64
}

type memoryService struct {
	maxSize int

	// entries supports concurrent get/insert without external locking;
	// insertMu only serializes the insert/evict/clear paths so the size
	// accounting and oldest-entry selection stay consistent.
	entries  sync.Map // fingerprint -> *entry
	size     atomic.Int64
	hits     atomic.Uint64
	misses   atomic.Uint64
	insertMu sync.Mutex

	now func() time.Time
}

// NewMemory returns an in-memory result cache holding at most maxSize
// entries. A maxSize below 1 is clamped to 1; a degenerate single-entry
// cache is still valid.
func NewMemory(maxSize int) IService {
	if maxSize < 1 {
		lgr.Logger.Warn(
			"cache max size clamped",
			slog.Int("requested", maxSize),
			slog.Int("clamped", 1),
		)
		maxSize = 1
	}

	return &memoryService{
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (svc *memoryService) Fingerprint(frame *model.Frame) string {
	h := sha256.New()

	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[0:4], uint32(frame.Width))
	binary.LittleEndian.PutUint32(dims[4:8], uint32(frame.Height))
	h.Write(dims[:])

	// Four corner pixels. A deliberately cheap approximate key: frames
	// that differ only in interior pixels collide on purpose.
	h.Write(frame.PixelAt(0, 0))
	h.Write(frame.PixelAt(frame.Width-1, 0))
	h.Write(frame.PixelAt(0, frame.Height-1))
	h.Write(frame.PixelAt(frame.Width-1, frame.Height-1))

	return hex.EncodeToString(h.Sum(nil))
}

func (svc *memoryService) TryGet(frame *model.Frame) (*model.CachedResult, bool) {
	fingerprint := svc.Fingerprint(frame)

	value, ok := svc.entries.Load(fingerprint)
	if !ok {
		svc.misses.Add(1)
		return nil, false
	}

	e := value.(*entry)
	svc.hits.Add(1)
	accesses := e.accessCount.Add(1)

	result := e.result
	result.WasFromCache = true

	return &model.CachedResult{
		Fingerprint:    e.fingerprint,
		Result:         result,
		ProcessingTime: e.processingTime,
		CachedAt:       e.cachedAt,
		AccessCount:    accesses,
	}, true
}

func (svc *memoryService) Insert(frame *model.Frame, result model.AnalysisResult, processingTime time.Duration) {
	fingerprint := svc.Fingerprint(frame)
	result.WasFromCache = false

	svc.insertMu.Lock()
	defer svc.insertMu.Unlock()

	_, exists := svc.entries.Load(fingerprint)
	if !exists && svc.size.Load() >= int64(svc.maxSize) {
		svc.evictOldest()
	}

	svc.entries.Store(fingerprint, &entry{
		fingerprint:    fingerprint,
		result:         result,
		processingTime: processingTime,
		cachedAt:       svc.now(),
	})

	if !exists {
		svc.size.Add(1)
	}
}

// evictOldest removes the single entry with the smallest cachedAt. O(n)
// selection over a cache of at most a few hundred entries. Caller holds
// insertMu.
func (svc *memoryService) evictOldest() {
	var oldest *entry
	svc.entries.Range(func(_, value interface{}) bool {
		e := value.(*entry)
		if oldest == nil || e.cachedAt.Before(oldest.cachedAt) {
			oldest = e
		}
		return true
	})

	if oldest == nil {
		return
	}

	svc.entries.Delete(oldest.fingerprint)
	svc.size.Add(-1)

	lgr.Logger.Debug(
		"cache entry evicted",
		slog.String("fingerprint", oldest.fingerprint),
		slog.Time("cachedAt", oldest.cachedAt),
		slog.Uint64("accessCount", oldest.accessCount.Load()),
	)
}

func (svc *memoryService) Clear() {
	svc.insertMu.Lock()
	defer svc.insertMu.Unlock()

	svc.entries.Range(func(key, _ interface{}) bool {
		svc.entries.Delete(key)
		return true
	})
	svc.size.Store(0)
}

func (svc *memoryService) Stats() model.CacheStats {
	hits := svc.hits.Load()
	misses := svc.misses.Load()

	var hitRate float64
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}

	return model.CacheStats{
		CachedItems: int(svc.size.Load()),
		Hits:        hits,
		Misses:      misses,
		HitRate:     hitRate,
		Timestamp:   time.Now().Unix(),
	}
}
