package system

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/rook-computer/glyphpane/internal/events"
)

func TestConsoleSourceReportsSizeThenRedraws(t *testing.T) {
	src := NewConsoleSource(image.Pt(640, 360), 5*time.Millisecond)
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer src.Stop()

	want := []events.Event{events.Resize(640, 360), events.Redraw(), events.Redraw()}
	for i, w := range want {
		select {
		case ev := <-src.Events():
			if ev != w {
				t.Fatalf("event %d = %s, want %s", i, ev, w)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestConsoleSourceStopEndsTicker(t *testing.T) {
	src := NewConsoleSource(image.Pt(1, 1), time.Millisecond)
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	done := make(chan struct{})
	go func() {
		_ = src.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
