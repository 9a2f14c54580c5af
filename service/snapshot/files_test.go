package snapshot

import (
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/igentuman/TarkovBuddy/model"
)

type stubConfig struct {
	folder string
}

func (c stubConfig) GetModeMaxShutdownTime() int            { return 1 }
func (c stubConfig) GetCapturePeriod() time.Duration        { return time.Millisecond }
func (c stubConfig) GetFrameBufferCapacity() int            { return 1 }
func (c stubConfig) GetCacheMaxSize() int                   { return 1 }
func (c stubConfig) GetStreamPollInterval() time.Duration   { return time.Millisecond }
func (c stubConfig) GetSchedulerStopTimeout() time.Duration { return time.Second }
func (c stubConfig) GetStatsPeriod() time.Duration          { return time.Second }
func (c stubConfig) GetCaptureDisplay() int                 { return 0 }
func (c stubConfig) GetVideoInputURL() string               { return "" }
func (c stubConfig) GetSnapshotsFolder() string             { return c.folder }

func TestSaveWritesDecodablePNG(t *testing.T) {
	svc := NewFiles(stubConfig{folder: t.TempDir()})

	frame, err := model.NewFrame(3, 2, 12, make([]byte, 24))
	require.NoError(t, err)

	path, err := svc.Save(frame)
	require.NoError(t, err)
	require.FileExists(t, path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())
}

func TestSaveCreatesMissingFolder(t *testing.T) {
	folder := t.TempDir() + "/nested/snaps"
	svc := NewFiles(stubConfig{folder: folder})

	frame, err := model.NewFrame(2, 2, 8, make([]byte, 16))
	require.NoError(t, err)

	path, err := svc.Save(frame)
	require.NoError(t, err)
	require.FileExists(t, path)
}
