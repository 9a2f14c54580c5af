package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/igentuman/TarkovBuddy/model"
)

// FrameBuffer is a fixed-capacity ring buffer of frames sitting between the
// capture loop and its consumers. A full buffer never blocks the producer:
// enqueue releases and drops the oldest frame to make room, so worst-case
// memory stays bounded at capacity frames no matter how far the consumer
// falls behind.
type FrameBuffer struct {
	mu       sync.Mutex
	slots    []*model.Frame
	capacity int
	head     int // next write position
	tail     int // next read position
	count    int

	totalDropped atomic.Int64
}

// NewFrameBuffer creates a buffer of the given fixed capacity. The capacity
// never changes after construction.
func NewFrameBuffer(capacity int) (*FrameBuffer, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &FrameBuffer{
		slots:    make([]*model.Frame, capacity),
		capacity: capacity,
	}, nil
}

// Enqueue inserts a frame, dropping (and releasing) the oldest buffered
// frame first when full. Returns how many frames were dropped to make room:
// 0 or 1. Never blocks.
func (b *FrameBuffer) Enqueue(frame *model.Frame) (int, error) {
	if frame == nil || frame.Released() {
		return 0, ErrNilFrame
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := 0
	if b.count == b.capacity {
		oldest := b.slots[b.tail]
		b.slots[b.tail] = nil
		b.tail = (b.tail + 1) % b.capacity
		b.count--
		oldest.Release()
		b.totalDropped.Add(1)
		dropped = 1
	}

	b.slots[b.head] = frame
	b.head = (b.head + 1) % b.capacity
	b.count++

	return dropped, nil
}

// TryDequeue removes and returns the oldest frame, or nil when empty. The
// caller becomes the frame's owner and must release it. Never blocks.
func (b *FrameBuffer) TryDequeue() *model.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}

	frame := b.slots[b.tail]
	b.slots[b.tail] = nil
	b.tail = (b.tail + 1) % b.capacity
	b.count--

	return frame
}

// TryPeek returns the oldest frame without removing it, or nil when empty.
// The frame stays owned by the buffer; callers must not release it.
func (b *FrameBuffer) TryPeek() *model.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}

	return b.slots[b.tail]
}

// Clear releases every buffered frame and resets the buffer to empty. The
// lifetime drop counter is preserved.
func (b *FrameBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.slots {
		if b.slots[i] != nil {
			b.slots[i].Release()
			b.slots[i] = nil
		}
	}

	b.head = 0
	b.tail = 0
	b.count = 0
}

func (b *FrameBuffer) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *FrameBuffer) Capacity() int {
	return b.capacity
}

func (b *FrameBuffer) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count == b.capacity
}

func (b *FrameBuffer) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count == 0
}

// TotalDropped reports how many frames this buffer has dropped over its
// lifetime. Clear does not reset it.
func (b *FrameBuffer) TotalDropped() int64 {
	return b.totalDropped.Load()
}
