package state

import (
	"sync"

	"github.com/rook-computer/glyphpane/internal/text"
)

// Phase is the lifecycle state of the window loop.
type Phase int

const (
	RUNNING Phase = iota
	EXITING
)

func (p Phase) String() string {
	switch p {
	case RUNNING:
		return "running"
	case EXITING:
		return "exiting"
	}
	return "unknown"
}

// Content is what the window displays.
type Content struct {
	Text  string
	Style text.Style
}

// FrameInfo describes the last presented frame.
type FrameInfo struct {
	Presented int
	Width     int
	Height    int
	// LayoutErr is set when the last frame fell back to the background only.
	LayoutErr string
}

type State struct {
	Phase   Phase
	Content Content
	Frame   FrameInfo
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore(content Content) *Store {
	return &Store{state: State{Phase: RUNNING, Content: content}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

func (store *Store) SetText(s string) {
	store.mu.Lock()
	store.state.Content.Text = s
	store.mu.Unlock()
}

func (store *Store) SetStyle(style text.Style) {
	store.mu.Lock()
	store.state.Content.Style = style
	store.mu.Unlock()
}

// RecordFrame notes a presented frame and the layout error it carried, if any.
func (store *Store) RecordFrame(width, height int, layoutErr error) {
	store.mu.Lock()
	store.state.Frame.Presented++
	store.state.Frame.Width = width
	store.state.Frame.Height = height
	store.state.Frame.LayoutErr = ""
	if layoutErr != nil {
		store.state.Frame.LayoutErr = layoutErr.Error()
	}
	store.mu.Unlock()
}
