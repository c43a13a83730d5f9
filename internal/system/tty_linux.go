//go:build linux

package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// Prefer /dev/tty (active VT), fallback to /dev/tty0
var ttyPaths = []string{"/dev/tty", "/dev/tty0"}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Console switches the active virtual terminal between text and graphics
// mode around framebuffer output, so the kernel does not draw its cursor or
// messages over the frame.
type Console struct {
	Logger   logger
	graphics bool
}

// EnterGraphics sets KD_GRAPHICS and hides the cursor. Failures are logged
// and returned; framebuffer output still works without them, only noisier.
func (c *Console) EnterGraphics() error {
	err := setMode(kdGraphics)
	if err != nil {
		c.errorf("KD_GRAPHICS failed: %v", err)
	} else {
		c.graphics = true
		c.infof("KD_GRAPHICS set")
	}
	if cerr := writeVT("\x1b[?25l"); cerr != nil {
		c.errorf("hide cursor failed: %v", cerr)
		if err == nil {
			err = cerr
		}
	}
	return err
}

// Restore shows the cursor and returns the console to text mode.
func (c *Console) Restore() error {
	if cerr := writeVT("\x1b[?25h"); cerr != nil {
		c.errorf("show cursor failed: %v", cerr)
	}
	if !c.graphics {
		return nil
	}
	if err := setMode(kdText); err != nil {
		c.errorf("KD_TEXT failed: %v", err)
		return err
	}
	c.graphics = false
	c.infof("KD_TEXT set")
	return nil
}

func (c *Console) infof(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Infof("tty", format, args...)
	}
}

func (c *Console) errorf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Errorf("tty", format, args...)
	}
}

func setMode(mode int) error {
	var lastErr error
	for _, p := range ttyPaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("KDSETMODE %d on %s: %w", mode, p, err)
			continue
		}
		return nil
	}
	return lastErr
}

func writeVT(s string) error {
	var lastErr error
	for _, p := range ttyPaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("write VT failed: %v", lastErr)
}
