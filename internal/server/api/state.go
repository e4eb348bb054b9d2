package api

import (
	"net/http"

	"github.com/ayusman/spellcast/internal/gesture"
)

// NoGestureText is the plain-text reply when no combo is active.
const NoGestureText = "No gesture detected"

// StateSource exposes the recognizer's latest snapshot.
type StateSource interface {
	Current() gesture.Snapshot
}

// StateHandler reports the active combo as JSON.
type StateHandler struct {
	source StateSource
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(source StateSource) *StateHandler {
	return &StateHandler{source: source}
}

type stateResponse struct {
	Gesture  *string `json:"gesture"`
	Active   bool    `json:"active"`
	Pinching bool    `json:"pinching"`
	Cooldown int     `json:"cooldown"`
	Frame    uint64  `json:"frame"`
}

// ServeHTTP handles GET /api/gesture.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := h.source.Current()
	response := stateResponse{
		Active:   snap.Combo != gesture.ComboNone,
		Pinching: snap.Pinching,
		Cooldown: snap.Cooldown,
		Frame:    snap.Frame,
	}
	if response.Active {
		label := snap.Label()
		response.Gesture = &label
	}

	writeJSON(w, http.StatusOK, response)
}

// LabelHandler reports the active combo label as plain text, or
// NoGestureText when none is active.
type LabelHandler struct {
	source StateSource
}

// NewLabelHandler creates a new LabelHandler.
func NewLabelHandler(source StateSource) *LabelHandler {
	return &LabelHandler{source: source}
}

// ServeHTTP handles GET /gesture.
func (h *LabelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	label := h.source.Current().Label()
	if label == "" {
		label = NoGestureText
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(label))
}
