package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rook-computer/glyphpane/internal/app"
	"github.com/rook-computer/glyphpane/internal/events"
	"github.com/rook-computer/glyphpane/internal/state"
)

// SimControl restores the simulated window to its startup condition.
type SimControl struct {
	startup app.Config
	store   *state.Store
	source  *events.ChanSource
}

func NewSimControl(startup app.Config, store *state.Store, source *events.ChanSource) *SimControl {
	return &SimControl{startup: startup, store: store, source: source}
}

// Reset puts back the startup content and window size and asks for a frame.
func (c *SimControl) Reset(ctx context.Context) error {
	content := c.startup.Content()
	c.store.SetText(content.Text)
	c.store.SetStyle(content.Style)
	if !c.source.Post(ctx, events.Resize(c.startup.Width, c.startup.Height)) || !c.source.Post(ctx, events.Redraw()) {
		return errors.New("window loop is not accepting events")
	}
	return nil
}

func registerSimEndpoints(handler http.Handler, control *SimControl) {
	mux, ok := handler.(*http.ServeMux)
	if !ok {
		// Only supported when the simulator uses the default mux.
		return
	}

	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := control.Reset(r.Context()); err != nil {
			writeSimError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "width": control.startup.Width, "height": control.startup.Height})
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
