//go:build linux

package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	fb "github.com/gonutz/framebuffer"
)

// FramebufferPresenter writes frames to a Linux framebuffer device.
type FramebufferPresenter struct {
	mu  sync.Mutex
	dev *fb.Device

	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

// OpenFramebuffer opens a device such as /dev/fb0.
func OpenFramebuffer(path string) (*FramebufferPresenter, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	return &FramebufferPresenter{dev: dev}, nil
}

// Bounds reports the visible framebuffer area.
func (p *FramebufferPresenter) Bounds() image.Rectangle {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return image.Rectangle{}
	}
	return p.dev.Bounds()
}

// Present copies the frame 1:1 to the top-left of the device, clipped to
// the device bounds.
func (p *FramebufferPresenter) Present(cells []PackedColor, width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return nil
	}
	if width < 0 || height < 0 || len(cells) != width*height {
		return fmt.Errorf("frame has %d cells, want %dx%d", len(cells), width, height)
	}
	bounds := p.dev.Bounds()
	w := min(width, bounds.Dx())
	h := min(height, bounds.Dy())
	for y := 0; y < h; y++ {
		row := cells[y*width : y*width+width]
		for x := 0; x < w; x++ {
			c := row[x]
			p.dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF})
		}
	}
	return nil
}

func (p *FramebufferPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev != nil {
		p.dev.Close()
		p.dev = nil
		if p.Logger != nil {
			p.Logger.Infof("fb", "framebuffer closed")
		}
	}
	return nil
}
