package gesture

// Swipe detection defaults.
const (
	// DefaultSwipeThreshold is the net displacement, in pixels, a swipe must exceed.
	DefaultSwipeThreshold = 110
	// DefaultMinDwellFrames is the number of samples and pinched frames that
	// must be exceeded before a swipe is considered.
	DefaultMinDwellFrames = 5
)

// SwipeDetector classifies the net displacement across a window.
type SwipeDetector struct {
	Threshold int
	MinDwell  int
}

// Detect returns the swipe direction from the oldest to the newest position.
// Nothing is reported until both the window length and framesSeen exceed
// MinDwell. Horizontal motion wins when it is strictly dominant, then
// vertical; equal magnitudes are not a swipe.
func (d SwipeDetector) Detect(w *Window, framesSeen int) (Direction, bool) {
	if w.Len() <= d.MinDwell || framesSeen <= d.MinDwell {
		return DirectionNone, false
	}

	first, _ := w.First()
	last, _ := w.Last()
	return d.Classify(last.Sub(first))
}

// Classify maps a displacement to a direction.
func (d SwipeDetector) Classify(delta Point) (Direction, bool) {
	ax, ay := abs(delta.X), abs(delta.Y)

	switch {
	case ax > d.Threshold && ax > ay:
		if delta.X > 0 {
			return DirectionRight, true
		}
		return DirectionLeft, true
	case ay > d.Threshold && ay > ax:
		if delta.Y > 0 {
			return DirectionDown, true
		}
		return DirectionUp, true
	}
	return DirectionNone, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
