package source

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/igentuman/TarkovBuddy/model"
	"github.com/igentuman/TarkovBuddy/service/config"
)

type videoService struct {
	cfgSvc config.IService

	mu      sync.Mutex
	capture *gocv.VideoCapture
}

// NewVideo returns a frame source that reads from a video file or RTSP URL.
// Useful for replaying recorded sessions through the same pipeline that
// serves live screen capture.
func NewVideo(cfgsvc config.IService) IService {
	return &videoService{
		cfgSvc: cfgsvc,
	}
}

func (svc *videoService) Capture() (*model.Frame, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	// Open lazily so construction never blocks and a bad URL stays a
	// per-capture transient error
	if svc.capture == nil {
		url := svc.cfgSvc.GetVideoInputURL()
		if url == "" {
			return nil, fmt.Errorf("no video input URL configured")
		}

		capture, err := gocv.OpenVideoCapture(url)
		if err != nil {
			return nil, model.GenError("video-source", err, map[string]interface{}{"url": url}, "error opening video input %s", url)
		}
		svc.capture = capture
	}

	img := gocv.NewMat()
	defer img.Close() // Crucial to close the image to avoid memory leaks

	if ok := svc.capture.Read(&img); !ok || img.Empty() {
		return nil, model.GenError("video-source", nil, nil, "error reading frame from video input")
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(img, &rgba, gocv.ColorBGRToRGBA)

	pixels := rgba.ToBytes()
	buf := make([]byte, len(pixels))
	copy(buf, pixels)

	return model.NewFrame(rgba.Cols(), rgba.Rows(), rgba.Cols()*4, buf)
}

func (svc *videoService) Close() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.capture == nil {
		return nil
	}

	err := svc.capture.Close()
	svc.capture = nil
	return err
}
