// Package gesture turns a stream of pinched finger-tip positions into
// debounced swipe, curve and combo gesture events.
package gesture

import "fmt"

// Point is a hand position sample in whole frame pixels.
// Y grows downward, as in image coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Sub returns the displacement p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// IsZero reports whether p is the zero vector.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Direction is the cardinal direction of a swipe.
type Direction int

const (
	// DirectionNone means no swipe.
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// Rotation is the winding sense of a curve, as seen on screen.
type Rotation int

const (
	// RotationNone means no curve.
	RotationNone Rotation = iota
	RotationClockwise
	RotationCounterClockwise
)

func (r Rotation) String() string {
	switch r {
	case RotationClockwise:
		return "clockwise"
	case RotationCounterClockwise:
		return "counter-clockwise"
	default:
		return "none"
	}
}

// Combo is an accepted curve-then-swipe gesture.
type Combo int

const (
	// ComboNone means no combo is active.
	ComboNone Combo = iota
	ComboClockwiseDown
	ComboClockwiseLeft
	ComboCounterClockwiseUp
	ComboCounterClockwiseRight
)

// Combos lists every recognizable combo in lookup order.
var Combos = []Combo{
	ComboClockwiseDown,
	ComboClockwiseLeft,
	ComboCounterClockwiseUp,
	ComboCounterClockwiseRight,
}

// String returns the published label, or "" for ComboNone.
func (c Combo) String() string {
	switch c {
	case ComboClockwiseDown:
		return "Clockwise + Down"
	case ComboClockwiseLeft:
		return "Clockwise + Left"
	case ComboCounterClockwiseUp:
		return "Counter-Clockwise + Up"
	case ComboCounterClockwiseRight:
		return "Counter-Clockwise + Right"
	default:
		return ""
	}
}

// ParseCombo maps a published label back to its Combo.
func ParseCombo(label string) (Combo, error) {
	for _, c := range Combos {
		if c.String() == label {
			return c, nil
		}
	}
	return ComboNone, fmt.Errorf("unknown combo %q", label)
}
