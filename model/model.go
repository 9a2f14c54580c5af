package model

import (
	"fmt"
	"image"
	"runtime/debug"
	"time"
)

const bytesPerPixel = 4 // packed RGBA

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func (e CustomError) Error() string {
	return e.Message
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

// Frame is one captured image plus capture metadata. Pixels are packed RGBA
// rows of Stride bytes each. A frame is never mutated after construction;
// whoever holds it must call Release when done with it.
type Frame struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Stride     int       `json:"stride"`
	Pixels     []byte    `json:"-"`
	CapturedAt time.Time `json:"capturedAt"`
	Sequence   uint64    `json:"sequence"` // Assigned by the scheduler at enqueue time
}

// NewFrame validates the pixel geometry invariants and returns a frame
// stamped with the current time. Stride must cover a full row of RGBA
// pixels and the pixel slice must cover Stride*Height bytes exactly.
func NewFrame(width, height, stride int, pixels []byte) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}

	if stride < width*bytesPerPixel {
		return nil, fmt.Errorf("stride %d is smaller than %d (width %d x %d bytes per pixel)", stride, width*bytesPerPixel, width, bytesPerPixel)
	}

	if len(pixels) != stride*height {
		return nil, fmt.Errorf("pixel buffer is %d bytes, expected %d (stride %d x height %d)", len(pixels), stride*height, stride, height)
	}

	return &Frame{
		Width:      width,
		Height:     height,
		Stride:     stride,
		Pixels:     pixels,
		CapturedAt: time.Now(),
	}, nil
}

// FromRGBA copies a stdlib RGBA image into a frame. This is the bridge from
// the capture libraries, which all produce *image.RGBA.
func FromRGBA(img *image.RGBA) (*Frame, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}

	pixels := make([]byte, len(img.Pix))
	copy(pixels, img.Pix)
	return NewFrame(img.Rect.Dx(), img.Rect.Dy(), img.Stride, pixels)
}

// ToRGBA returns a stdlib view over a copy of the frame pixels.
func (f *Frame) ToRGBA() *image.RGBA {
	pixels := make([]byte, len(f.Pixels))
	copy(pixels, f.Pixels)
	return &image.RGBA{
		Pix:    pixels,
		Stride: f.Stride,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Clone returns an independent deep copy. Mirrors the Mat.Clone discipline
// required when a frame is handed to more than one holder.
func (f *Frame) Clone() *Frame {
	pixels := make([]byte, len(f.Pixels))
	copy(pixels, f.Pixels)
	return &Frame{
		Width:      f.Width,
		Height:     f.Height,
		Stride:     f.Stride,
		Pixels:     pixels,
		CapturedAt: f.CapturedAt,
		Sequence:   f.Sequence,
	}
}

// Release drops the pixel buffer reference. The buffer releases frames it
// evicts; consumers release frames once they are done with them.
func (f *Frame) Release() {
	f.Pixels = nil
}

// Released reports whether the pixel buffer has been dropped.
func (f *Frame) Released() bool {
	return f.Pixels == nil
}

// PixelAt returns the 4 RGBA bytes at (x, y). Bounds are the caller's
// responsibility; the fingerprint sampler only reads corners.
func (f *Frame) PixelAt(x, y int) []byte {
	offset := y*f.Stride + x*bytesPerPixel
	return f.Pixels[offset : offset+bytesPerPixel]
}

// Detection is a single recognized object within a frame. The optional
// fields form a fixed schema per known use case rather than an open
// string-keyed map.
type Detection struct {
	Label      string          `json:"label"`
	Confidence float32         `json:"confidence"`
	Bounds     image.Rectangle `json:"bounds"`
	Text       string          `json:"text,omitempty"`     // Recognized text within the bounds, if any
	Quantity   int             `json:"quantity,omitempty"` // Stack count for item detections, 0 when unknown
}

// AnalysisResult is the opaque payload an analysis engine produces for one
// frame: recognized text plus any detections.
type AnalysisResult struct {
	Text         string      `json:"text"`
	Confidence   float64     `json:"confidence"`
	Detections   []Detection `json:"detections,omitempty"`
	WasFromCache bool        `json:"wasFromCache"`
}

// CachedResult is a snapshot of one result cache entry.
type CachedResult struct {
	Fingerprint    string         `json:"fingerprint"`
	Result         AnalysisResult `json:"result"`
	ProcessingTime time.Duration  `json:"processingTime"`
	CachedAt       time.Time      `json:"cachedAt"`
	AccessCount    uint64         `json:"accessCount"`
}

type CaptureStats struct {
	SessionID string  `json:"sessionId"`
	Frames    int64   `json:"frames"`
	Dropped   int64   `json:"dropped"`
	Errors    int64   `json:"errors"`
	FPS       float64 `json:"fps"`
	Uptime    int64   `json:"uptime"`
	Timestamp int64   `json:"timestamp"`
}

type CacheStats struct {
	CachedItems int     `json:"cachedItems"`
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	HitRate     float64 `json:"hitRate"`
	Timestamp   int64   `json:"timestamp"`
}
