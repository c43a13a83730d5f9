package state

import (
	"errors"
	"sync"
	"testing"

	"github.com/rook-computer/glyphpane/internal/text"
)

func TestStoreTracksContentAndFrames(t *testing.T) {
	store := NewStore(Content{Text: "a", Style: text.Style{Family: text.SansSerif, SizePt: 10}})
	if snap := store.Snapshot(); snap.Phase != RUNNING || snap.Content.Text != "a" {
		t.Fatalf("unexpected initial state %+v", snap)
	}

	store.SetText("b")
	store.SetStyle(text.Style{Family: text.Serif, SizePt: 12})
	store.RecordFrame(10, 20, errors.New("layout failure: unknown font family"))
	store.RecordFrame(30, 40, nil)
	store.SetPhase(EXITING)

	snap := store.Snapshot()
	if snap.Content.Text != "b" || snap.Content.Style.Family != text.Serif {
		t.Errorf("content not updated: %+v", snap.Content)
	}
	if snap.Frame != (FrameInfo{Presented: 2, Width: 30, Height: 40}) {
		t.Errorf("frame info %+v", snap.Frame)
	}
	if snap.Phase != EXITING || snap.Phase.String() != "exiting" {
		t.Errorf("phase %v", snap.Phase)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore(Content{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.RecordFrame(j, j, nil)
				_ = store.Snapshot()
			}
		}()
	}
	wg.Wait()
	if got := store.Snapshot().Frame.Presented; got != 800 {
		t.Errorf("presented = %d, want 800", got)
	}
}
