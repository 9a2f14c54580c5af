package mode

import (
	"context"

	"github.com/igentuman/TarkovBuddy/pipeline"
)

// Processor is a top-level run mode. It owns its pipeline components for
// the duration of the run and returns when the context is cancelled or the
// mode completes.
type Processor func(canxCtx context.Context, svcs pipeline.ServicesFactory) error
