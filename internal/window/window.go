// Package window shows frames in a desktop window through GLFW and OpenGL.
//
// GLFW must be driven from the main OS thread. The package locks the main
// goroutine to it at init, and every method must be called from that goroutine.
package window

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rook-computer/glyphpane/internal/events"
	"github.com/rook-computer/glyphpane/internal/render"
)

func init() {
	runtime.LockOSThread()
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Window is both the event source and the presentation sink of the window loop.
type Window struct {
	Logger logger
	// Background fills the window area outside the frame.
	Background render.PackedColor

	win     *glfw.Window
	tex     uint32
	fbo     uint32
	pending []events.Event

	stopOnce sync.Once
	stop     chan struct{}
}

// Open creates a resizable window with an OpenGL 4.1 core context.
func Open(title string, width, height int) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}

	w := &Window{win: win, Background: render.Background, stop: make(chan struct{})}

	gl.GenTextures(1, &w.tex)
	gl.BindTexture(gl.TEXTURE_2D, w.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.GenFramebuffers(1, &w.fbo)

	win.SetCloseCallback(w.closeCallback)
	win.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	win.SetRefreshCallback(w.refreshCallback)

	return w, nil
}

// Start queues the initial size and first redraw. Cancelling ctx wakes a
// blocked Pump so the loop can observe it.
func (w *Window) Start(ctx context.Context) error {
	width, height := w.win.GetFramebufferSize()
	w.queue(events.Resize(width, height))
	w.queue(events.Redraw())

	go func() {
		select {
		case <-ctx.Done():
			glfw.PostEmptyEvent()
		case <-w.stop:
		}
	}()
	return nil
}

func (w *Window) Stop() error {
	w.stopOnce.Do(func() { close(w.stop) })
	return nil
}

// Events is unused; a Window delivers its events through Pump.
func (w *Window) Events() <-chan events.Event { return nil }

// Pump waits for window system activity and returns the events it produced, in order.
func (w *Window) Pump() []events.Event {
	if len(w.pending) == 0 {
		glfw.WaitEvents()
	}
	out := w.pending
	w.pending = nil
	return out
}

func (w *Window) queue(ev events.Event) {
	w.pending = append(w.pending, ev)
}

func (w *Window) closeCallback(_ *glfw.Window) {
	w.queue(events.Close())
}

// The window system only damages the window on some platforms after a
// resize, so a redraw is always requested here.
func (w *Window) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	w.queue(events.Resize(width, height))
	w.queue(events.Redraw())
}

func (w *Window) refreshCallback(_ *glfw.Window) {
	w.queue(events.Redraw())
}

// Present uploads the frame as a texture and blits it to the top-left of
// the window, flipping rows since GL counts them bottom-up.
func (w *Window) Present(cells []render.PackedColor, width, height int) error {
	if len(cells) != width*height {
		return fmt.Errorf("frame has %d cells, want %dx%d", len(cells), width, height)
	}
	fbWidth, fbHeight := w.win.GetFramebufferSize()

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	bg := w.Background
	gl.ClearColor(float32(bg.R())/255, float32(bg.G())/255, float32(bg.B())/255, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if width > 0 && height > 0 {
		gl.BindTexture(gl.TEXTURE_2D, w.tex)
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
		// 0x00RRGGBB words read as BGRA with reversed byte order on any endianness.
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.BGRA, gl.UNSIGNED_INT_8_8_8_8_REV, unsafe.Pointer(&cells[0]))

		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, w.fbo)
		gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, w.tex, 0)
		if status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
			return fmt.Errorf("framebuffer incomplete: 0x%x", status)
		}
		gl.BlitFramebuffer(
			0, 0, int32(width), int32(height),
			0, int32(fbHeight), int32(width), int32(fbHeight-height),
			gl.COLOR_BUFFER_BIT, gl.NEAREST,
		)
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	}

	w.win.SwapBuffers()
	return nil
}

// Close releases GL objects, destroys the window and terminates GLFW.
func (w *Window) Close() {
	w.Stop()
	if w.fbo != 0 {
		gl.DeleteFramebuffers(1, &w.fbo)
	}
	if w.tex != 0 {
		gl.DeleteTextures(1, &w.tex)
	}
	w.win.Destroy()
	glfw.Terminate()
	if w.Logger != nil {
		w.Logger.Infof("window", "closed")
	}
}
