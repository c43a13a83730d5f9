//go:build !linux

package system

import "context"

const (
	KeyEsc = 1
	KeyF4  = 62
)

// WatchKeys needs evdev and does nothing on this platform.
func WatchKeys(ctx context.Context, l logger, onPress func(code uint16), codes ...uint16) {
	if l != nil {
		l.Infof("input", "key watching is only supported on linux")
	}
}
