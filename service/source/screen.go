package source

import (
	"fmt"

	"github.com/kbinani/screenshot"

	"github.com/igentuman/TarkovBuddy/model"
	"github.com/igentuman/TarkovBuddy/service/config"
)

type screenService struct {
	cfgSvc config.IService
}

// NewScreen returns a frame source that captures the configured display.
// This is the primary capture path when running against a live game window.
func NewScreen(cfgsvc config.IService) IService {
	return &screenService{
		cfgSvc: cfgsvc,
	}
}

func (svc *screenService) Capture() (*model.Frame, error) {
	display := svc.cfgSvc.GetCaptureDisplay()
	if display < 0 || display >= screenshot.NumActiveDisplays() {
		return nil, fmt.Errorf("display %d is not active (%d displays available)", display, screenshot.NumActiveDisplays())
	}

	img, err := screenshot.CaptureDisplay(display)
	if err != nil {
		// Transient: screen may be locked or access denied momentarily
		return nil, fmt.Errorf("error capturing display %d: %w", display, err)
	}

	return model.FromRGBA(img)
}

func (svc *screenService) Close() error {
	return nil
}
