package snapshot

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/igentuman/TarkovBuddy/model"
	"github.com/igentuman/TarkovBuddy/service/config"
)

type filesService struct {
	cfgSvc config.IService
}

// NewFiles returns a snapshot service that writes PNG files into the
// configured snapshots folder.
func NewFiles(cfgsvc config.IService) IService {
	return &filesService{
		cfgSvc: cfgsvc,
	}
}

func (svc *filesService) Save(frame *model.Frame) (string, error) {
	folder := svc.cfgSvc.GetSnapshotsFolder()
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("error creating snapshots folder: %w", err)
	}

	path := filepath.Join(folder, fmt.Sprintf("snapshot_%d.png", time.Now().UnixNano()))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating snapshot file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, frame.ToRGBA()); err != nil {
		return "", fmt.Errorf("error encoding snapshot: %w", err)
	}

	return path, nil
}
