package analysis

import (
	"context"
	"image"
	"time"

	"github.com/igentuman/TarkovBuddy/model"
)

type fakeService struct {
	delay time.Duration
}

// NewFake returns an analysis service that produces a canned result after
// an artificial delay, standing in for a real OCR/detection engine.
func NewFake(delay time.Duration) IService {
	return &fakeService{
		delay: delay,
	}
}

func (svc *fakeService) Analyze(ctx context.Context, frame *model.Frame, region *image.Rectangle) (model.AnalysisResult, error) {
	select {
	case <-ctx.Done():
		return model.AnalysisResult{}, ctx.Err()
	case <-time.After(svc.delay):
	}

	bounds := image.Rect(0, 0, frame.Width, frame.Height)
	if region != nil {
		bounds = *region
	}

	return model.AnalysisResult{
		Text:       "",
		Confidence: 0,
		Detections: []model.Detection{
			{
				Label:      "fake",
				Confidence: 1.0,
				Bounds:     bounds,
			},
		},
	}, nil
}
