package system

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/rook-computer/glyphpane/internal/events"
)

// ConsoleSource produces window events for a fixed-size display with no
// window manager, such as the Linux framebuffer. It reports the display size
// once, then asks for a redraw on every tick so the frame covers anything
// the console writes on top of it. F4 requests close.
type ConsoleSource struct {
	Size     image.Point
	Interval time.Duration
	Logger   logger

	ch     chan events.Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConsoleSource(size image.Point, interval time.Duration) *ConsoleSource {
	return &ConsoleSource{Size: size, Interval: interval, ch: make(chan events.Event, 4)}
}

func (s *ConsoleSource) Events() <-chan events.Event { return s.ch }

func (s *ConsoleSource) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	WatchKeys(ctx, s.Logger, func(uint16) { s.post(ctx, events.Close()) }, KeyF4)

	interval := s.Interval
	if interval <= 0 {
		interval = time.Second / 30
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if !s.post(ctx, events.Resize(s.Size.X, s.Size.Y)) || !s.post(ctx, events.Redraw()) {
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		lastLog := time.Now()
		frames := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Skip the tick rather than queue up redraws behind a slow frame.
				select {
				case s.ch <- events.Redraw():
					frames++
				default:
				}
				if s.Logger != nil && time.Since(lastLog) > 10*time.Second {
					s.Logger.Infof("console", "heartbeat, %d redraws requested", frames)
					lastLog = time.Now()
				}
			}
		}
	}()
	return nil
}

func (s *ConsoleSource) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}

func (s *ConsoleSource) post(ctx context.Context, ev events.Event) bool {
	select {
	case s.ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
