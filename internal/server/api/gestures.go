package api

import (
	"net/http"

	"github.com/ayusman/spellcast/internal/gesture"
	"github.com/ayusman/spellcast/internal/store"
)

// GestureHandler lists the recognizable combos and the action bound to each.
type GestureHandler struct {
	store *store.Store
}

// NewGestureHandler creates a new GestureHandler with the given store.
func NewGestureHandler(s *store.Store) *GestureHandler {
	return &GestureHandler{store: s}
}

type gestureResponse struct {
	Label     string          `json:"label"`
	Rotation  string          `json:"rotation"`
	Direction string          `json:"direction"`
	Action    *actionResponse `json:"action"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

// ServeHTTP handles GET /api/gestures.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := listGesturesResponse{
		Gestures: make([]gestureResponse, 0, len(gesture.Combos)),
	}

	for _, c := range gesture.Combos {
		rot, dir := c.Parts()
		g := gestureResponse{
			Label:     c.String(),
			Rotation:  rot.String(),
			Direction: dir.String(),
		}

		action, err := h.store.Actions().GetByGesture(c.String())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load actions")
			return
		}
		if action != nil {
			ar := toActionResponse(action)
			g.Action = &ar
		}

		response.Gestures = append(response.Gestures, g)
	}

	writeJSON(w, http.StatusOK, response)
}
