package pipeline

import (
	"errors"
	"time"

	"github.com/igentuman/TarkovBuddy/model"
	"github.com/igentuman/TarkovBuddy/service/analysis"
	"github.com/igentuman/TarkovBuddy/service/config"
	"github.com/igentuman/TarkovBuddy/service/rescache"
	"github.com/igentuman/TarkovBuddy/service/snapshot"
	"github.com/igentuman/TarkovBuddy/service/source"
)

var (
	// ErrInvalidCapacity is returned when a frame buffer is constructed
	// with a capacity below 1.
	ErrInvalidCapacity = errors.New("frame buffer capacity must be at least 1")

	// ErrNilFrame is returned when a nil or already released frame is
	// offered to the buffer.
	ErrNilFrame = errors.New("cannot enqueue a nil or released frame")

	// ErrNotStarted is returned when a frame stream is requested before
	// the scheduler has been started. Streaming from an uninitialized
	// producer is a programmer error upstream.
	ErrNotStarted = errors.New("capture scheduler is not started")

	// ErrStopTimeout is returned when the producer loop fails to
	// terminate within the configured join timeout.
	ErrStopTimeout = errors.New("capture loop did not stop within the allotted timeout")
)

type ServicesFactory struct {
	CfgSvc      config.IService
	SourceSvc   source.IService
	AnalysisSvc analysis.IService
	CacheSvc    rescache.IService
	SnapshotSvc snapshot.IService
}

// FrameObserver is invoked after each successful capture with the frame,
// the number of frames dropped by that enqueue, and the capture call
// duration. Observers run on the producer goroutine: they must return
// quickly, must not release the frame, and must Clone it before retaining
// it past the call.
type FrameObserver func(frame *model.Frame, dropped int, captureTime time.Duration)
