package events

import (
	"context"
	"fmt"
	"sync"
)

type Kind int

const (
	Unknown Kind = iota
	CloseRequested
	Resized
	RedrawRequested
)

func (k Kind) String() string {
	switch k {
	case CloseRequested:
		return "close-requested"
	case Resized:
		return "resized"
	case RedrawRequested:
		return "redraw-requested"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a window system notification. Width and Height are only set for Resized.
type Event struct {
	Kind   Kind
	Width  int
	Height int
}

func Close() Event                   { return Event{Kind: CloseRequested} }
func Redraw() Event                  { return Event{Kind: RedrawRequested} }
func Resize(width, height int) Event { return Event{Kind: Resized, Width: width, Height: height} }

func (e Event) String() string {
	if e.Kind == Resized {
		return fmt.Sprintf("%s(%dx%d)", e.Kind, e.Width, e.Height)
	}
	return e.Kind.String()
}

// Source delivers window events to a single consumer.
type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

// Pumper is implemented by sources whose events only arrive while the
// consumer's thread polls the window system, as GLFW requires. Such sources
// deliver through Pump instead of the Events channel. Pump blocks until the
// window system wakes up and may return no events.
type Pumper interface {
	Pump() []Event
}

// ChanSource is a Source fed by Post, used by headless front ends and tests.
type ChanSource struct {
	ch   chan Event
	once sync.Once
	done chan struct{}
}

func NewChanSource(buffer int) *ChanSource {
	return &ChanSource{ch: make(chan Event, buffer), done: make(chan struct{})}
}

func (s *ChanSource) Start(ctx context.Context) error { return nil }

// Stop makes further Post calls fail. The channel itself stays open so a
// consumer blocked on it is only released by its own context.
func (s *ChanSource) Stop() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *ChanSource) Events() <-chan Event { return s.ch }

// Post queues ev, blocking while the buffer is full. It returns false when
// the source is stopped or ctx ends first.
func (s *ChanSource) Post(ctx context.Context, ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.ch <- ev:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}
