//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	evKey = 0x01

	// Linux input-event-codes.h
	KeyEsc = 1
	KeyF4  = 62
)

// WatchKeys watches Linux evdev devices under /dev/input/event* and invokes
// onPress once, when any of codes is pressed. Watchers stop when ctx ends
// or after the first press.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchKeys(ctx context.Context, l logger, onPress func(code uint16), codes ...uint16) {
	if onPress == nil || len(codes) == 0 {
		return
	}

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 2 + 2 + 4
	if tvSize <= 0 {
		tvSize, eventSize = 16, 24
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found")
		}
		return
	}

	wanted := map[uint16]bool{}
	for _, c := range codes {
		wanted[c] = true
	}

	watchCtx, cancel := context.WithCancel(ctx)
	var once sync.Once
	fire := func(code uint16) {
		once.Do(func() {
			if l != nil {
				l.Infof("input", "key %d pressed", code)
			}
			cancel()
			onPress(code)
		})
	}

	for _, path := range paths {
		go watchDevice(watchCtx, path, tvSize, eventSize, wanted, fire)
	}
}

func watchDevice(ctx context.Context, path string, tvSize, eventSize int, wanted map[uint16]bool, fire func(uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for ctx.Err() == nil {
		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}

		for off := 0; off+eventSize <= n; off += eventSize {
			rec := buf[off : off+eventSize]
			typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
			code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
			value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
			if typ == evKey && value == 1 && wanted[code] {
				fire(code)
				return
			}
		}
	}
}
