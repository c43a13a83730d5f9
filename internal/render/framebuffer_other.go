//go:build !linux

package render

import (
	"errors"
	"image"
)

// FramebufferPresenter is only available on Linux.
type FramebufferPresenter struct {
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

func OpenFramebuffer(path string) (*FramebufferPresenter, error) {
	return nil, errors.New("framebuffer output requires linux")
}

func (p *FramebufferPresenter) Bounds() image.Rectangle { return image.Rectangle{} }

func (p *FramebufferPresenter) Present(cells []PackedColor, width, height int) error { return nil }

func (p *FramebufferPresenter) Close() error { return nil }
