package web

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"strconv"

	"github.com/rook-computer/glyphpane/internal/events"
	"github.com/rook-computer/glyphpane/internal/text"
)

const (
	frameWidthHeader  = "X-Frame-Width"
	frameHeightHeader = "X-Frame-Height"

	maxBodyBytes = 1 << 20
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// textRequest updates the displayed content. Omitted fields keep their value.
type textRequest struct {
	Text   *string  `json:"text"`
	Font   *string  `json:"font"`
	SizePt *float64 `json:"size"`
}

type frameStatus struct {
	Presented   int    `json:"presented"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	LayoutError string `json:"layoutError,omitempty"`
}

type statusResponse struct {
	Phase  string      `json:"phase"`
	Text   string      `json:"text"`
	Font   string      `json:"font"`
	SizePt float64     `json:"size"`
	Frame  frameStatus `json:"frame"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/resize", func(w http.ResponseWriter, r *http.Request) { handleResize(w, r, deps) })
	mux.HandleFunc("/redraw", func(w http.ResponseWriter, r *http.Request) {
		handleEvent(w, r, deps, events.Redraw())
	})
	mux.HandleFunc("/close", func(w http.ResponseWriter, r *http.Request) {
		handleEvent(w, r, deps, events.Close())
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) { handleText(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, deps) })
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	return mux
}

func handleEvent(w http.ResponseWriter, r *http.Request, deps APIV1Deps, ev events.Event) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if !post(w, r, deps, ev) {
		return
	}
	writeJSON(w, http.StatusAccepted, okResponse{OK: true})
}

// handleResize behaves like a window manager: the resize is followed by a
// redraw request.
func handleResize(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var req resizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Width < 0 || req.Height < 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_size", "width and height must not be negative")
		return
	}
	if !post(w, r, deps, events.Resize(req.Width, req.Height)) || !post(w, r, deps, events.Redraw()) {
		return
	}
	writeJSON(w, http.StatusAccepted, okResponse{OK: true})
}

func handleText(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Store == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "content store not configured")
		return
	}
	var req textRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	style := deps.Store.Snapshot().Content.Style
	if req.Font != nil {
		family, err := text.ParseFontFamily(*req.Font)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_font", err.Error())
			return
		}
		style.Family = family
	}
	if req.SizePt != nil {
		if !(*req.SizePt > 0) {
			writeAPIError(w, http.StatusBadRequest, "invalid_size", "size must be positive")
			return
		}
		style.SizePt = *req.SizePt
	}

	// Unknown font names are accepted here; the frame falls back to the
	// background and /status reports the layout error.
	deps.Store.SetStyle(style)
	if req.Text != nil {
		deps.Store.SetText(*req.Text)
	}
	if !post(w, r, deps, events.Redraw()) {
		return
	}
	writeJSON(w, http.StatusAccepted, okResponse{OK: true})
}

func handleFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Frames == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "frame capture not configured")
		return
	}
	frame, ok := deps.Frames.Last()
	if !ok {
		writeAPIError(w, http.StatusNotFound, "no_frame", "no frame presented yet")
		return
	}
	if frame.Empty() {
		writeAPIError(w, http.StatusConflict, "empty_frame", "last frame has zero area")
		return
	}

	var body bytes.Buffer
	if err := png.Encode(&body, frame); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set(frameWidthHeader, strconv.Itoa(frame.Width()))
	w.Header().Set(frameHeightHeader, strconv.Itoa(frame.Height()))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(body.Bytes())
	}
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Store == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "content store not configured")
		return
	}
	snap := deps.Store.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		Phase:  snap.Phase.String(),
		Text:   snap.Content.Text,
		Font:   snap.Content.Style.Family.Name(),
		SizePt: snap.Content.Style.SizePt,
		Frame: frameStatus{
			Presented:   snap.Frame.Presented,
			Width:       snap.Frame.Width,
			Height:      snap.Frame.Height,
			LayoutError: snap.Frame.LayoutErr,
		},
	})
}

// post forwards ev and writes an error response when the loop is gone.
func post(w http.ResponseWriter, r *http.Request, deps APIV1Deps, ev events.Event) bool {
	if deps.Events == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "event source not configured")
		return false
	}
	if !deps.Events.Post(r.Context(), ev) {
		writeAPIError(w, http.StatusServiceUnavailable, "loop_stopped", "window loop is not accepting events")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
