package analysis

import (
	"context"
	"image"

	"github.com/igentuman/TarkovBuddy/model"
)

// IService is the boundary to the expensive analysis engines (text
// recognition, object detection). Engines live outside this module; the
// pipeline only ever invokes them on a result-cache miss.
type IService interface {
	Analyze(ctx context.Context, frame *model.Frame, region *image.Rectangle) (model.AnalysisResult, error)
}
