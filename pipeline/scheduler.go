package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/igentuman/TarkovBuddy/model"
	"github.com/igentuman/TarkovBuddy/service/config"
	"github.com/igentuman/TarkovBuddy/service/lgr"
	"github.com/igentuman/TarkovBuddy/service/source"
)

// Scheduler drives a dedicated producer loop that pulls frames from the
// injected source at a fixed cadence and feeds the frame buffer,
// independent of consumer speed. Exactly one producer goroutine runs per
// capture session.
type Scheduler struct {
	cfgSvc    config.IService
	sourceSvc source.IService

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	buffer    *FrameBuffer
	sessionID string
	startedAt time.Time

	seq           atomic.Uint64
	totalCaptured atomic.Int64
	totalDropped  atomic.Int64
	totalErrors   atomic.Int64

	obsMu     sync.RWMutex
	observers map[string]FrameObserver
}

func NewScheduler(cfgsvc config.IService, sourcesvc source.IService) *Scheduler {
	return &Scheduler{
		cfgSvc:    cfgsvc,
		sourceSvc: sourcesvc,
		observers: map[string]FrameObserver{},
	}
}

// Start allocates a fresh buffer and launches the producer loop. Calling
// Start on a running scheduler is a no-op that logs a warning.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		lgr.Logger.Warn(
			"capture scheduler already running",
			slog.String("sessionID", s.sessionID),
		)
		return nil
	}

	buffer, err := NewFrameBuffer(s.cfgSvc.GetFrameBufferCapacity())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.buffer = buffer
	s.cancel = cancel
	s.done = make(chan struct{})
	s.sessionID = uuid.NewString()
	s.startedAt = time.Now()
	s.seq.Store(0)
	s.totalCaptured.Store(0)
	s.totalDropped.Store(0)
	s.totalErrors.Store(0)
	s.running = true

	lgr.Logger.Info(
		"capture scheduler starting....",
		slog.String("sessionID", s.sessionID),
		slog.Duration("period", s.cfgSvc.GetCapturePeriod()),
		slog.Int("bufferCapacity", buffer.Capacity()),
	)

	go s.loop(ctx, buffer, s.done, s.sessionID)
	return nil
}

// Stop signals the producer loop and joins it with a bounded timeout, then
// releases the capture source. Safe to call when not running. A loop that
// fails to terminate in time is reported as ErrStopTimeout, never silently
// swallowed.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		lgr.Logger.Warn("capture scheduler is not running")
		return nil
	}
	cancel := s.cancel
	done := s.done
	sessionID := s.sessionID
	s.running = false
	s.mu.Unlock()

	cancel()

	timeout := s.cfgSvc.GetSchedulerStopTimeout()
	select {
	case <-done:
	case <-time.After(timeout):
		lgr.Logger.Error(
			"capture loop did not stop in time",
			slog.String("sessionID", sessionID),
			slog.Duration("timeout", timeout),
		)
		return ErrStopTimeout
	}

	if err := s.sourceSvc.Close(); err != nil {
		lgr.Logger.Error(
			"error closing capture source",
			slog.Any("error", err),
		)
	}

	lgr.Logger.Info(
		"capture scheduler stopped",
		slog.String("sessionID", sessionID),
		slog.Int64("frames", s.totalCaptured.Load()),
		slog.Int64("dropped", s.totalDropped.Load()),
		slog.Int64("errors", s.totalErrors.Load()),
	)
	return nil
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Buffer returns the buffer of the current capture session, or nil before
// the first Start.
func (s *Scheduler) Buffer() *FrameBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// loop owns its session's buffer and id explicitly so a loop that outlives
// its session (a stop timeout) can never touch a later session's state.
func (s *Scheduler) loop(ctx context.Context, buffer *FrameBuffer, done chan struct{}, sessionID string) {
	defer close(done)

	period := s.cfgSvc.GetCapturePeriod()

	for {
		select {
		case <-ctx.Done():
			lgr.Logger.Info(
				"capture loop context cancelled",
				slog.String("sessionID", sessionID),
			)
			return
		default:
		}

		started := time.Now()
		s.iterate(buffer, sessionID)

		// Hold the cadence. An overrun starts the next iteration
		// immediately; there is no compounding drift correction.
		if wait := period - time.Since(started); wait > 0 {
			select {
			case <-ctx.Done():
				lgr.Logger.Info(
					"capture loop context cancelled",
					slog.String("sessionID", sessionID),
				)
				return
			case <-time.After(wait):
			}
		}
	}
}

// iterate performs one capture attempt. Source errors and panics are
// absorbed here: a dead capture loop would starve every consumer with no
// observable signal, so nothing is allowed to kill it.
func (s *Scheduler) iterate(buffer *FrameBuffer, sessionID string) {
	defer func() {
		if r := recover(); r != nil {
			s.totalErrors.Add(1)
			lgr.Logger.Error(
				"capture iteration panicked",
				slog.String("sessionID", sessionID),
				slog.Any("panic", r),
			)
		}
	}()

	captureStart := time.Now()
	frame, err := s.sourceSvc.Capture()
	captureTime := time.Since(captureStart)

	if err != nil {
		s.totalErrors.Add(1)
		lgr.Logger.Warn(
			"frame capture failed",
			slog.String("sessionID", sessionID),
			slog.Any("error", err),
		)
		return
	}

	frame.Sequence = s.seq.Add(1)

	dropped, err := buffer.Enqueue(frame)
	if err != nil {
		s.totalErrors.Add(1)
		lgr.Logger.Error(
			"frame enqueue failed",
			slog.String("sessionID", sessionID),
			slog.Any("error", err),
		)
		return
	}

	s.totalCaptured.Add(1)
	if dropped > 0 {
		s.totalDropped.Add(int64(dropped))
	}

	s.notifyObservers(frame, dropped, captureTime, sessionID)
}

// Notify registers an observer for captured frames and returns a handle
// for deregistration.
func (s *Scheduler) Notify(observer FrameObserver) string {
	handle := uuid.NewString()

	s.obsMu.Lock()
	s.observers[handle] = observer
	s.obsMu.Unlock()

	return handle
}

// Deregister removes a previously registered observer. Unknown handles are
// ignored.
func (s *Scheduler) Deregister(handle string) {
	s.obsMu.Lock()
	delete(s.observers, handle)
	s.obsMu.Unlock()
}

func (s *Scheduler) notifyObservers(frame *model.Frame, dropped int, captureTime time.Duration, sessionID string) {
	s.obsMu.RLock()
	observers := make([]FrameObserver, 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	s.obsMu.RUnlock()

	for _, obs := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					lgr.Logger.Error(
						"frame observer panicked",
						slog.String("sessionID", sessionID),
						slog.Any("panic", r),
					)
				}
			}()
			obs(frame, dropped, captureTime)
		}()
	}
}

// CurrentFPS reports the capture throughput of the running session: total
// captured frames over elapsed seconds. 0 while stopped or before the
// first frame.
func (s *Scheduler) CurrentFPS() float64 {
	s.mu.Lock()
	running := s.running
	startedAt := s.startedAt
	s.mu.Unlock()

	captured := s.totalCaptured.Load()
	if !running || captured == 0 {
		return 0
	}

	elapsed := time.Since(startedAt).Seconds()
	if elapsed <= 0 {
		return 0
	}

	return float64(captured) / elapsed
}

// Stats returns a snapshot of the session counters.
func (s *Scheduler) Stats() model.CaptureStats {
	s.mu.Lock()
	sessionID := s.sessionID
	startedAt := s.startedAt
	running := s.running
	s.mu.Unlock()

	var uptime int64
	if running {
		uptime = int64(time.Since(startedAt).Seconds())
	}

	return model.CaptureStats{
		SessionID: sessionID,
		Frames:    s.totalCaptured.Load(),
		Dropped:   s.totalDropped.Load(),
		Errors:    s.totalErrors.Load(),
		FPS:       s.CurrentFPS(),
		Uptime:    uptime,
		Timestamp: time.Now().Unix(),
	}
}

// CaptureScreenshot grabs a single frame straight from the source,
// bypassing the buffer. Works before or after Start; returns nil when the
// source is unavailable.
func (s *Scheduler) CaptureScreenshot() *model.Frame {
	frame, err := s.sourceSvc.Capture()
	if err != nil {
		lgr.Logger.Warn(
			"screenshot capture failed",
			slog.Any("error", err),
		)
		return nil
	}

	return frame
}
