package source

import (
	"sync/atomic"

	"github.com/igentuman/TarkovBuddy/model"
)

type syntheticService struct {
	width   int
	height  int
	counter atomic.Uint64
}

// NewSynthetic returns a frame source that generates flat-colored frames,
// each slightly different from the last. It stands in for the real capture
// path in tests and demos.
func NewSynthetic(width, height int) IService {
	return &syntheticService{
		width:  width,
		height: height,
	}
}

func (svc *syntheticService) Capture() (*model.Frame, error) {
	n := svc.counter.Add(1)
	stride := svc.width * 4
	pixels := make([]byte, stride*svc.height)
	shade := byte(n % 256)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = shade
		pixels[i+1] = shade
		pixels[i+2] = shade
		pixels[i+3] = 0xff
	}

	return model.NewFrame(svc.width, svc.height, stride, pixels)
}

func (svc *syntheticService) Close() error {
	return nil
}
