package source

import "github.com/igentuman/TarkovBuddy/model"

// IService is the injected frame source the capture scheduler pulls from.
// Capture may fail transiently (display locked, stream hiccup); callers are
// expected to skip the iteration and keep going.
type IService interface {
	Capture() (*model.Frame, error)
	Close() error
}
