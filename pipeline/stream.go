package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/igentuman/TarkovBuddy/model"
	"github.com/igentuman/TarkovBuddy/service/lgr"
)

// Stream returns a channel draining the current session's buffer in strict
// capture order. The sequence is infinite: it ends only when the context is
// cancelled or the scheduler stops and the buffer runs dry. An empty buffer
// is polled at a short fixed interval rather than spun on. Each call
// produces an independent sequence over the same buffer.
//
// Frames received from the channel are owned by the consumer, which must
// release them.
func (s *Scheduler) Stream(canxCtx context.Context) (<-chan *model.Frame, error) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil, ErrNotStarted
	}
	buffer := s.buffer
	sessionID := s.sessionID
	s.mu.Unlock()

	poll := s.cfgSvc.GetStreamPollInterval()
	out := make(chan *model.Frame)

	go func() {
		defer close(out)

		for {
			frame := buffer.TryDequeue()
			if frame == nil {
				if !s.Running() {
					lgr.Logger.Info(
						"frame stream ended: scheduler stopped",
						slog.String("sessionID", sessionID),
					)
					return
				}

				select {
				case <-canxCtx.Done():
					lgr.Logger.Info(
						"frame stream context cancelled",
						slog.String("sessionID", sessionID),
					)
					return
				case <-time.After(poll):
				}
				continue
			}

			select {
			case <-canxCtx.Done():
				// The frame was never handed off; release it here
				frame.Release()
				lgr.Logger.Info(
					"frame stream context cancelled while sending",
					slog.String("sessionID", sessionID),
				)
				return
			case out <- frame:
			}
		}
	}()

	return out, nil
}
