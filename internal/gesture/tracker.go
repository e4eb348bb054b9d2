package gesture

// Tracker holds the positions collected during one uninterrupted pinch.
type Tracker struct {
	window     *Window
	framesSeen int
}

// NewTracker creates a tracker with a window of the given capacity.
func NewTracker(capacity int) *Tracker {
	return &Tracker{window: NewWindow(capacity)}
}

// Observe records the position for a pinched frame.
func (t *Tracker) Observe(p Point) {
	t.window.Push(p)
	t.framesSeen++
}

// Reset drops every position and the frame count. Motion from before an
// interruption never carries into the next pinch.
func (t *Tracker) Reset() {
	t.window.Reset()
	t.framesSeen = 0
}

// Window returns the current position window.
func (t *Tracker) Window() *Window {
	return t.window
}

// FramesSeen returns the number of pinched frames since the last reset.
func (t *Tracker) FramesSeen() int {
	return t.framesSeen
}
