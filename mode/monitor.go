package mode

import (
	"context"
	"log/slog"
	"time"

	"github.com/igentuman/TarkovBuddy/model"
	"github.com/igentuman/TarkovBuddy/pipeline"
	"github.com/igentuman/TarkovBuddy/service/lgr"
)

// Monitor runs the full capture pipeline: scheduler feeding the bounded
// buffer, a stream consumer draining it, and per-frame analysis guarded by
// the result cache. Capture and cache stats are reported periodically.
func Monitor(canxCtx context.Context, svcs pipeline.ServicesFactory) error {
	scheduler := pipeline.NewScheduler(svcs.CfgSvc, svcs.SourceSvc)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			lgr.Logger.Error(
				"error stopping capture scheduler",
				slog.Any("error", err),
			)
		}
	}()

	// Surface buffer overruns as they happen; the counter alone is easy
	// to miss in a live session
	handle := scheduler.Notify(func(frame *model.Frame, dropped int, captureTime time.Duration) {
		if dropped > 0 {
			lgr.Logger.Debug(
				"oldest frame dropped to keep buffer bounded",
				slog.Uint64("sequence", frame.Sequence),
				slog.Duration("captureTime", captureTime),
			)
		}
	})
	defer scheduler.Deregister(handle)

	frames, err := scheduler.Stream(canxCtx)
	if err != nil {
		return err
	}

	statsTicker := time.NewTicker(svcs.CfgSvc.GetStatsPeriod())
	defer statsTicker.Stop()

	lgr.Logger.Info("monitor mode started")

	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info("monitor mode context cancelled")
			return nil

		case <-statsTicker.C:
			displayStats(scheduler.Stats(), svcs.CacheSvc.Stats())

		case frame, ok := <-frames:
			if !ok {
				lgr.Logger.Info("monitor mode frame stream closed")
				return nil
			}
			analyzeFrame(canxCtx, svcs, frame)
		}
	}
}

// analyzeFrame runs the cache-guarded analysis path for one frame. The
// frame is owned here and released on the way out.
func analyzeFrame(canxCtx context.Context, svcs pipeline.ServicesFactory, frame *model.Frame) {
	defer frame.Release()

	if cached, ok := svcs.CacheSvc.TryGet(frame); ok {
		lgr.Logger.Debug(
			"analysis served from cache",
			slog.Uint64("sequence", frame.Sequence),
			slog.String("fingerprint", cached.Fingerprint),
			slog.Uint64("accessCount", cached.AccessCount),
		)
		return
	}

	started := time.Now()
	result, err := svcs.AnalysisSvc.Analyze(canxCtx, frame, nil)
	if err != nil {
		// Analysis hiccups are absorbed; the next frame gets its chance
		lgr.Logger.Warn(
			"frame analysis failed",
			slog.Uint64("sequence", frame.Sequence),
			slog.Any("error", err),
		)
		return
	}

	svcs.CacheSvc.Insert(frame, result, time.Since(started))

	lgr.Logger.Debug(
		"frame analyzed",
		slog.Uint64("sequence", frame.Sequence),
		slog.Int("detections", len(result.Detections)),
		slog.Duration("processingTime", time.Since(started)),
	)
}
