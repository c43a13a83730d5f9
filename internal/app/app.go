package app

import (
	"context"
	"errors"

	"github.com/rook-computer/glyphpane/internal/events"
	"github.com/rook-computer/glyphpane/internal/render"
	"github.com/rook-computer/glyphpane/internal/state"
	"github.com/rook-computer/glyphpane/internal/text"
)

// Renderer draws one frame of content into a buffer.
type Renderer interface {
	Render(buf *render.PixelBuffer, content state.Content) error
}

// App is the window loop. It owns the pixel buffer and reacts to window
// events one at a time on the goroutine that calls Start.
//
// The loop starts in RUNNING. A close request moves it to EXITING, after
// which every event is ignored and Start returns.
type App struct {
	Store     *state.Store
	Render    Renderer
	Source    events.Source
	Presenter render.Presenter
	Logger    Logger

	buffer *render.PixelBuffer
	phase  state.Phase
}

// New creates an App with an empty buffer. Sources report the initial
// window size as a Resized event.
func New(store *state.Store, renderer Renderer, source events.Source, presenter render.Presenter) *App {
	return &App{
		Store:     store,
		Render:    renderer,
		Source:    source,
		Presenter: presenter,
		Logger:    NoopLogger{},
		buffer:    render.NewPixelBuffer(0, 0),
		phase:     state.RUNNING,
	}
}

func (app *App) Phase() state.Phase { return app.phase }

// Buffer exposes the pixel buffer for inspection. It is only valid until the next event.
func (app *App) Buffer() *render.PixelBuffer { return app.buffer }

// Handle applies one event and returns the resulting phase.
//
// A resize only reallocates the buffer; the window system is expected to
// follow it with a redraw request. A redraw renders and presents a frame
// sized to the current buffer, even when the layout failed.
func (app *App) Handle(ev events.Event) state.Phase {
	if app.phase == state.EXITING {
		return app.phase
	}
	switch ev.Kind {
	case events.CloseRequested:
		app.phase = state.EXITING
		if app.Store != nil {
			app.Store.SetPhase(state.EXITING)
		}
		app.Logger.Infof("app", "close requested")
	case events.Resized:
		app.buffer.Resize(ev.Width, ev.Height)
		app.Logger.Infof("app", "buffer resized to %dx%d", app.buffer.Width(), app.buffer.Height())
	case events.RedrawRequested:
		app.redraw()
	default:
		app.Logger.Infof("app", "ignoring event %s", ev)
	}
	return app.phase
}

func (app *App) redraw() {
	var content state.Content
	if app.Store != nil {
		content = app.Store.Snapshot().Content
	}

	err := app.Render.Render(app.buffer, content)
	if err != nil && !errors.Is(err, text.ErrLayoutFailure) {
		app.Logger.Errorf("app", "render error: %v", err)
	}

	width, height := app.buffer.Width(), app.buffer.Height()
	if app.Presenter != nil {
		if perr := app.Presenter.Present(app.buffer.Cells(), width, height); perr != nil {
			app.Logger.Errorf("app", "present %dx%d failed: %v", width, height, perr)
			return
		}
	}
	if app.Store != nil {
		app.Store.RecordFrame(width, height, err)
	}
}

// Start runs the loop until a close request arrives, the source closes its
// channel, or ctx ends. The source is started and stopped by Start.
func (app *App) Start(ctx context.Context) error {
	if app.Source == nil {
		return errors.New("no event source")
	}
	if err := app.Source.Start(ctx); err != nil {
		app.Logger.Errorf("app", "event source start error: %v", err)
		return err
	}
	defer app.Source.Stop()

	evs := app.Source.Events()
	pump, pumped := app.Source.(events.Pumper)
	for app.phase == state.RUNNING {
		if pumped {
			for _, ev := range pump.Pump() {
				app.Handle(ev)
			}
			if err := ctx.Err(); err != nil && app.phase == state.RUNNING {
				app.Handle(events.Close())
				return err
			}
			continue
		}

		select {
		case <-ctx.Done():
			app.Handle(events.Close())
			return ctx.Err()
		case ev, ok := <-evs:
			if !ok {
				return nil
			}
			app.Handle(ev)
		}
	}
	return nil
}
