package gesture

import "github.com/ayusman/spellcast/internal/detector"

// DefaultPinchThreshold is the largest finger-tip spacing, in pixels, that
// still counts as a pinch at 640x480.
const DefaultPinchThreshold = 80.0

// PinchGate admits a hand into motion tracking only while the thumb, index
// and middle finger tips are pressed together.
type PinchGate struct {
	Threshold float64
}

// Pinching reports whether all three pairwise tip distances are strictly
// below the threshold.
func (g PinchGate) Pinching(tips detector.Fingertips) bool {
	return Distance(tips.Thumb, tips.Index) < g.Threshold &&
		Distance(tips.Thumb, tips.Middle) < g.Threshold &&
		Distance(tips.Index, tips.Middle) < g.Threshold
}
