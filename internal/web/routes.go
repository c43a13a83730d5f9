package web

import (
	"context"
	"net/http"

	"github.com/rook-computer/glyphpane/internal/events"
	"github.com/rook-computer/glyphpane/internal/render"
	"github.com/rook-computer/glyphpane/internal/state"
)

// EventPoster forwards window events to the loop.
type EventPoster interface {
	Post(ctx context.Context, ev events.Event) bool
}

// FrameSource returns the most recently presented frame.
type FrameSource interface {
	Last() (*render.PixelBuffer, bool)
}

type APIV1Deps struct {
	Events EventPoster
	Store  *state.Store
	Frames FrameSource
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, deps APIV1Deps) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(deps)))
}

// NewDefaultMux builds the mux the simulator serves: /api/v1/* for the API.
func NewDefaultMux(deps APIV1Deps) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, deps)
	return mux
}
