package gesture

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Cooldown defaults. At 30 frames per second a two second cooldown is 60 frames.
const (
	DefaultFrameRate = 30.0
	DefaultCooldown  = 2 * time.Second
)

// Params tunes the recognizer. Distances are in pixels of the frame the
// finger tips were measured in.
type Params struct {
	PinchThreshold float64
	SwipeThreshold int
	CurveThreshold float64
	MinCurvePoints int
	WindowSize     int
	MinDwellFrames int

	// FrameRate is the rate Step is called at. Together with Cooldown it
	// fixes how many frames a published combo is held.
	FrameRate float64
	Cooldown  time.Duration
}

// DefaultParams returns the tuned defaults for a 640x480 mirrored webcam feed.
func DefaultParams() Params {
	return Params{
		PinchThreshold: DefaultPinchThreshold,
		SwipeThreshold: DefaultSwipeThreshold,
		CurveThreshold: DefaultCurveThreshold,
		MinCurvePoints: DefaultMinCurvePoints,
		WindowSize:     DefaultWindowSize,
		MinDwellFrames: DefaultMinDwellFrames,
		FrameRate:      DefaultFrameRate,
		Cooldown:       DefaultCooldown,
	}
}

// CooldownFrames converts Cooldown to a frame count at FrameRate.
func (p Params) CooldownFrames() int {
	return int(math.Round(p.Cooldown.Seconds() * p.FrameRate))
}

// Validate reports the first invalid parameter.
func (p Params) Validate() error {
	switch {
	case p.PinchThreshold <= 0:
		return fmt.Errorf("pinch threshold must be positive, got %v", p.PinchThreshold)
	case p.SwipeThreshold <= 0:
		return fmt.Errorf("swipe threshold must be positive, got %d", p.SwipeThreshold)
	case p.CurveThreshold <= 0:
		return fmt.Errorf("curve threshold must be positive, got %v", p.CurveThreshold)
	case p.MinCurvePoints < 3:
		return fmt.Errorf("min curve points must be at least 3, got %d", p.MinCurvePoints)
	case p.WindowSize < p.MinCurvePoints:
		return fmt.Errorf("window size %d cannot hold %d curve points", p.WindowSize, p.MinCurvePoints)
	case p.MinDwellFrames < 1:
		return fmt.Errorf("min dwell frames must be at least 1, got %d", p.MinDwellFrames)
	case p.FrameRate <= 0:
		return fmt.Errorf("frame rate must be positive, got %v", p.FrameRate)
	case p.Cooldown < 0:
		return errors.New("cooldown must not be negative")
	}
	return nil
}
