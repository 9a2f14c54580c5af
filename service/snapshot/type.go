package snapshot

import "github.com/igentuman/TarkovBuddy/model"

// IService persists one-shot screenshots taken outside the buffered
// pipeline.
type IService interface {
	Save(frame *model.Frame) (string, error)
}
