package render

import (
	"errors"
	"sync"
)

// MemoryPresenter keeps a copy of the last presented frame. The simulator
// serves it over HTTP and tests inspect it.
type MemoryPresenter struct {
	mu     sync.RWMutex
	last   *PixelBuffer
	frames int
}

func NewMemoryPresenter() *MemoryPresenter { return &MemoryPresenter{} }

func (m *MemoryPresenter) Present(cells []PackedColor, width, height int) error {
	if width < 0 || height < 0 || len(cells) != width*height {
		return errors.New("frame size does not match pixel count")
	}
	frame := NewPixelBuffer(width, height)
	copy(frame.cells, cells)

	m.mu.Lock()
	m.last = frame
	m.frames++
	m.mu.Unlock()
	return nil
}

// Last returns the most recent frame, or false before the first Present.
// The returned buffer is a private copy.
func (m *MemoryPresenter) Last() (*PixelBuffer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return nil, false
	}
	frame := NewPixelBuffer(m.last.width, m.last.height)
	copy(frame.cells, m.last.cells)
	return frame, true
}

// Frames counts successful Present calls.
func (m *MemoryPresenter) Frames() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frames
}
