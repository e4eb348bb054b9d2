// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

import (
	"errors"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumFingertips is the number of tracked finger tips (thumb, index, middle).
const NumFingertips = 3

// ErrMalformedLandmarks is returned when a landmark set cannot yield three finite finger tips.
var ErrMalformedLandmarks = errors.New("malformed landmarks")

// Point3D represents a 3D point in space with x, y, z coordinates.
// Coordinates produced by MediaPipe are normalized to the frame (0-1).
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point2D is a point in frame pixel coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Fingertips holds the thumb, index and middle finger tips of one hand for a
// single frame, in pixel coordinates. A nil *Fingertips means no hand.
type Fingertips struct {
	Thumb  Point2D `json:"thumb"`
	Index  Point2D `json:"index"`
	Middle Point2D `json:"middle"`
}

// NewFingertips builds Fingertips from an ordered thumb, index, middle slice.
// Returns ErrMalformedLandmarks if fewer than three points are given or any
// coordinate is not finite.
func NewFingertips(points []Point2D) (*Fingertips, error) {
	if len(points) < NumFingertips {
		return nil, ErrMalformedLandmarks
	}

	tips := &Fingertips{
		Thumb:  points[0],
		Index:  points[1],
		Middle: points[2],
	}
	if !tips.Finite() {
		return nil, ErrMalformedLandmarks
	}

	return tips, nil
}

// Points returns the tips in thumb, index, middle order.
func (f *Fingertips) Points() [NumFingertips]Point2D {
	return [NumFingertips]Point2D{f.Thumb, f.Index, f.Middle}
}

// Finite reports whether every coordinate is a finite number.
func (f *Fingertips) Finite() bool {
	if f == nil {
		return false
	}
	for _, p := range f.Points() {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// Fingertips scales the thumb, index and middle tips to pixel coordinates of
// a width x height frame. Coordinates are truncated to whole pixels the same
// way the frame is addressed.
func (h *HandLandmarks) Fingertips(width, height int) (*Fingertips, error) {
	if h == nil {
		return nil, ErrMalformedLandmarks
	}

	toPixel := func(p Point3D) Point2D {
		return Point2D{
			X: math.Trunc(p.X * float64(width)),
			Y: math.Trunc(p.Y * float64(height)),
		}
	}

	return NewFingertips([]Point2D{
		toPixel(h.Points[ThumbTip]),
		toPixel(h.Points[IndexTip]),
		toPixel(h.Points[MiddleTip]),
	})
}
