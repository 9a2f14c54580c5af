package mode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/igentuman/TarkovBuddy/pipeline"
	"github.com/igentuman/TarkovBuddy/service/lgr"
)

// Snapshot takes a single unbuffered screenshot and writes it to disk. The
// scheduler is never started: this exercises the one-shot capture path
// that works outside a running session.
func Snapshot(_ context.Context, svcs pipeline.ServicesFactory) error {
	scheduler := pipeline.NewScheduler(svcs.CfgSvc, svcs.SourceSvc)

	frame := scheduler.CaptureScreenshot()
	if frame == nil {
		return fmt.Errorf("capture source is unavailable")
	}
	defer frame.Release()

	path, err := svcs.SnapshotSvc.Save(frame)
	if err != nil {
		return fmt.Errorf("error saving snapshot: %w", err)
	}

	lgr.Logger.Info(
		"snapshot saved",
		slog.String("path", path),
		slog.Int("width", frame.Width),
		slog.Int("height", frame.Height),
	)
	return nil
}
