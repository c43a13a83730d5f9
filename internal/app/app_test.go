package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/glyphpane/internal/events"
	"github.com/rook-computer/glyphpane/internal/render"
	"github.com/rook-computer/glyphpane/internal/state"
	"github.com/rook-computer/glyphpane/internal/text"
)

type recordingRenderer struct {
	sizes []string
	texts []string
	err   error
}

func (r *recordingRenderer) Render(buf *render.PixelBuffer, content state.Content) error {
	r.sizes = append(r.sizes, fmt.Sprintf("%dx%d", buf.Width(), buf.Height()))
	r.texts = append(r.texts, content.Text)
	buf.Fill(render.RGB(0x11, 0x22, 0x33))
	return r.err
}

type pumpSource struct {
	batches [][]events.Event
	started bool
	stopped bool
}

func (p *pumpSource) Start(ctx context.Context) error { p.started = true; return nil }
func (p *pumpSource) Stop() error                     { p.stopped = true; return nil }
func (p *pumpSource) Events() <-chan events.Event     { return nil }

func (p *pumpSource) Pump() []events.Event {
	if len(p.batches) == 0 {
		return []events.Event{events.Close()}
	}
	next := p.batches[0]
	p.batches = p.batches[1:]
	return next
}

func newTestApp(r Renderer, src events.Source) (*App, *render.MemoryPresenter, *state.Store) {
	store := state.NewStore(state.Content{Text: "Hi", Style: text.Style{Family: text.SansSerif, SizePt: 24}})
	frames := render.NewMemoryPresenter()
	return New(store, r, src, frames), frames, store
}

func TestResizeThenRedrawPresentsNewSize(t *testing.T) {
	r := &recordingRenderer{}
	a, frames, store := newTestApp(r, nil)

	a.Handle(events.Resize(720, 480))
	a.Handle(events.Redraw())
	a.Handle(events.Resize(300, 200))
	if frames.Frames() != 1 {
		t.Fatalf("resize alone must not present, got %d frames", frames.Frames())
	}
	a.Handle(events.Redraw())

	if got := strings.Join(r.sizes, ","); got != "720x480,300x200" {
		t.Errorf("rendered sizes = %s", got)
	}
	frame, ok := frames.Last()
	if !ok {
		t.Fatal("no frame presented")
	}
	if frame.Width() != 300 || frame.Height() != 200 {
		t.Errorf("presented %dx%d, want 300x200", frame.Width(), frame.Height())
	}
	if frame.Get(299, 199) != render.RGB(0x11, 0x22, 0x33) {
		t.Errorf("frame content not copied: %06x", uint32(frame.Get(299, 199)))
	}
	info := store.Snapshot().Frame
	if info.Presented != 2 || info.Width != 300 || info.Height != 200 || info.LayoutErr != "" {
		t.Errorf("unexpected frame info %+v", info)
	}
}

func TestRedrawBeforeResizePresentsEmptyFrame(t *testing.T) {
	r := &recordingRenderer{}
	a, frames, _ := newTestApp(r, nil)
	a.Handle(events.Redraw())
	frame, ok := frames.Last()
	if !ok || frame.Width() != 0 || frame.Height() != 0 {
		t.Errorf("expected an empty frame, got %v %v", frame, ok)
	}
}

func TestCloseMovesToExitingAndIgnoresLaterEvents(t *testing.T) {
	r := &recordingRenderer{}
	a, frames, store := newTestApp(r, nil)

	if got := a.Handle(events.Close()); got != state.EXITING {
		t.Fatalf("phase after close = %v", got)
	}
	if store.Snapshot().Phase != state.EXITING {
		t.Error("store should mirror the EXITING phase")
	}

	a.Handle(events.Resize(10, 10))
	a.Handle(events.Redraw())
	a.Handle(events.Close())
	if len(r.sizes) != 0 || frames.Frames() != 0 {
		t.Errorf("events after close should be ignored, rendered %v", r.sizes)
	}
	if a.Buffer().Width() != 0 {
		t.Errorf("resize after close changed the buffer to %d wide", a.Buffer().Width())
	}
}

func TestUnknownEventIsIgnored(t *testing.T) {
	r := &recordingRenderer{}
	a, frames, _ := newTestApp(r, nil)
	var logs bytes.Buffer
	a.Logger = NewFileLogger(&logs)

	if got := a.Handle(events.Event{Kind: events.Kind(42)}); got != state.RUNNING {
		t.Errorf("phase = %v, want RUNNING", got)
	}
	if len(r.sizes) != 0 || frames.Frames() != 0 {
		t.Error("unknown event should not draw")
	}
	if !strings.Contains(logs.String(), "ignoring event kind(42)") {
		t.Errorf("expected an ignore log line, got %q", logs.String())
	}
}

func TestLayoutFailureStillPresents(t *testing.T) {
	r := &recordingRenderer{err: fmt.Errorf("render frame: %w", text.ErrLayoutFailure)}
	a, frames, store := newTestApp(r, nil)
	var logs bytes.Buffer
	a.Logger = NewFileLogger(&logs)

	a.Handle(events.Resize(4, 3))
	a.Handle(events.Redraw())

	if frames.Frames() != 1 {
		t.Fatalf("expected a frame despite the layout failure, got %d", frames.Frames())
	}
	if store.Snapshot().Frame.LayoutErr == "" {
		t.Error("layout failure should be recorded")
	}
	if strings.Contains(logs.String(), "[ERROR]") {
		t.Errorf("layout failures are not loop errors: %q", logs.String())
	}
}

func TestRenderErrorIsLogged(t *testing.T) {
	r := &recordingRenderer{err: errors.New("boom")}
	a, frames, _ := newTestApp(r, nil)
	var logs bytes.Buffer
	a.Logger = NewFileLogger(&logs)

	a.Handle(events.Resize(2, 2))
	a.Handle(events.Redraw())
	if frames.Frames() != 1 {
		t.Errorf("expected a frame, got %d", frames.Frames())
	}
	if !strings.Contains(logs.String(), "[ERROR] app: render error: boom") {
		t.Errorf("missing error log: %q", logs.String())
	}
}

func TestStartStopsOnClose(t *testing.T) {
	src := events.NewChanSource(8)
	r := &recordingRenderer{}
	a, frames, _ := newTestApp(r, src)

	ctx := context.Background()
	for _, ev := range []events.Event{events.Resize(30, 20), events.Redraw(), events.Close(), events.Redraw()} {
		if !src.Post(ctx, ev) {
			t.Fatalf("post %s failed", ev)
		}
	}

	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit after close")
	}
	if a.Phase() != state.EXITING {
		t.Errorf("phase = %v", a.Phase())
	}
	if frames.Frames() != 1 {
		t.Errorf("expected exactly one frame before close, got %d", frames.Frames())
	}
	if src.Post(ctx, events.Redraw()) {
		t.Error("source should be stopped once the loop returns")
	}
}

func TestStartReturnsOnContextCancel(t *testing.T) {
	src := events.NewChanSource(1)
	a, _, store := newTestApp(&recordingRenderer{}, src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit on cancel")
	}
	if store.Snapshot().Phase != state.EXITING {
		t.Error("cancel should leave the loop EXITING")
	}
}

func TestStartDrainsPumpedEvents(t *testing.T) {
	src := &pumpSource{batches: [][]events.Event{
		{events.Resize(8, 6), events.Redraw()},
		nil,
		{events.Redraw()},
	}}
	r := &recordingRenderer{}
	a, frames, _ := newTestApp(r, src)

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !src.started || !src.stopped {
		t.Error("Start should start and stop the source")
	}
	if frames.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", frames.Frames())
	}
	if a.Phase() != state.EXITING {
		t.Errorf("phase = %v", a.Phase())
	}
}

func TestStartWithoutSource(t *testing.T) {
	a, _, _ := newTestApp(&recordingRenderer{}, nil)
	if err := a.Start(context.Background()); err == nil {
		t.Error("expected an error without an event source")
	}
}

type widthRecordingBuilder struct{ widths []float64 }

func (b *widthRecordingBuilder) Build(s string, style text.Style) (*text.Layout, error) {
	b.widths = append(b.widths, style.MaxWidthPx)
	return &text.Layout{}, nil
}

type nopRasterizer struct{}

func (nopRasterizer) Rasterize(g text.Glyph, clip image.Rectangle, v text.CoverageVisitor) {}

func TestResizeThenRedrawRewrapsToNewWidth(t *testing.T) {
	builder := &widthRecordingBuilder{}
	a, frames, _ := newTestApp(render.NewFrameRenderer(builder, nopRasterizer{}), nil)

	a.Handle(events.Resize(720, 480))
	a.Handle(events.Redraw())
	a.Handle(events.Resize(300, 200))
	a.Handle(events.Redraw())

	if len(builder.widths) != 2 || builder.widths[0] != 720 || builder.widths[1] != 300 {
		t.Fatalf("wrap widths = %v, want [720 300]", builder.widths)
	}
	frame, ok := frames.Last()
	if !ok || frame.Width() != 300 || frame.Height() != 200 {
		t.Fatalf("expected a 300x200 frame, got %v %v", frame, ok)
	}
	for _, c := range frame.Cells() {
		if c != render.Background {
			t.Fatalf("empty layout should present the background, found %06x", uint32(c))
		}
	}
}
