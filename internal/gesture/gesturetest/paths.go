// Package gesturetest provides synthetic hand paths for exercising the
// gesture recognizer without a camera.
package gesturetest

import (
	"math"

	"github.com/ayusman/spellcast/internal/detector"
)

// Frame centre used by the canned paths, for a 640x480 feed.
var Center = detector.Point2D{X: 320, Y: 240}

// Arc returns n whole-pixel points on a circle of radius r around c, starting
// at angle start (radians) and advancing by step each point. With image
// coordinates (y down) a positive step traces a clockwise arc on screen.
func Arc(c detector.Point2D, r, start, step float64, n int) []detector.Point2D {
	pts := make([]detector.Point2D, n)
	for i := range pts {
		a := start + step*float64(i)
		pts[i] = detector.Point2D{
			X: math.Round(c.X + r*math.Cos(a)),
			Y: math.Round(c.Y + r*math.Sin(a)),
		}
	}
	return pts
}

// Line returns n points continuing from `from` (exclusive), each displaced by
// (dx, dy) from the previous one.
func Line(from detector.Point2D, dx, dy float64, n int) []detector.Point2D {
	pts := make([]detector.Point2D, n)
	p := from
	for i := range pts {
		p = detector.Point2D{X: p.X + dx, Y: p.Y + dy}
		pts[i] = p
	}
	return pts
}

// Reverse returns pts in reverse order.
func Reverse(pts []detector.Point2D) []detector.Point2D {
	out := make([]detector.Point2D, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// Concat joins paths end to end.
func Concat(paths ...[]detector.Point2D) []detector.Point2D {
	var out []detector.Point2D
	for _, p := range paths {
		out = append(out, p...)
	}
	return out
}

// Canned curve-then-swipe geometry: a 14 point arc of radius 50 turning
// 0.2 rad per step, then six 20 px steps. The arc alone never travels far
// enough to count as a swipe; the swipe registers on its fifth step.
const (
	arcRadius  = 50
	arcStep    = 0.2
	arcPoints  = 14
	swipeStep  = 20
	swipeSteps = 6
)

// CurveThenSwipe returns an arc around Center whose final heading is the
// unit direction (dx, dy), followed by a straight run along that heading.
// With image coordinates (y down) clockwise means clockwise on screen.
func CurveThenSwipe(clockwise bool, dx, dy float64) []detector.Point2D {
	heading := math.Atan2(dy, dx)
	span := arcStep * float64(arcPoints-1)

	var arc []detector.Point2D
	if clockwise {
		end := heading - math.Pi/2
		arc = Arc(Center, arcRadius, end-span, arcStep, arcPoints)
	} else {
		end := heading + math.Pi/2
		arc = Arc(Center, arcRadius, end+span, -arcStep, arcPoints)
	}

	return Concat(arc, Line(arc[len(arc)-1], swipeStep*dx, swipeStep*dy, swipeSteps))
}

// ClockwiseArc is the arc of ClockwiseDown on its own.
func ClockwiseArc() []detector.Point2D {
	return ClockwiseDown()[:arcPoints]
}

// ClockwiseDown traces a clockwise arc that ends moving straight down, then
// swipes down.
func ClockwiseDown() []detector.Point2D {
	return CurveThenSwipe(true, 0, 1)
}

// ClockwiseLeft traces a clockwise arc, then swipes left.
func ClockwiseLeft() []detector.Point2D {
	return CurveThenSwipe(true, -1, 0)
}

// CounterClockwiseUp traces a counter-clockwise arc, then swipes up.
func CounterClockwiseUp() []detector.Point2D {
	return CurveThenSwipe(false, 0, -1)
}

// CounterClockwiseRight traces a counter-clockwise arc, then swipes right.
func CounterClockwiseRight() []detector.Point2D {
	return CurveThenSwipe(false, 1, 0)
}

// ArcPoints is the number of arc samples in the canned paths.
const ArcPoints = arcPoints

// Tips returns pinched finger tips whose centroid is exactly p.
func Tips(p detector.Point2D) *detector.Fingertips {
	return &detector.Fingertips{
		Thumb:  detector.Point2D{X: p.X - 3, Y: p.Y + 2},
		Index:  detector.Point2D{X: p.X + 3, Y: p.Y - 2},
		Middle: p,
	}
}

// Open returns finger tips spread far apart around p, failing the pinch gate.
func Open(p detector.Point2D) *detector.Fingertips {
	return &detector.Fingertips{
		Thumb:  detector.Point2D{X: p.X - 90, Y: p.Y + 40},
		Index:  detector.Point2D{X: p.X + 10, Y: p.Y - 120},
		Middle: p,
	}
}

// Frames converts a path into pinched per-frame finger tips.
func Frames(path []detector.Point2D) []*detector.Fingertips {
	frames := make([]*detector.Fingertips, len(path))
	for i, p := range path {
		frames[i] = Tips(p)
	}
	return frames
}

// Hands converts a path into per-frame MediaPipe landmarks for a width x
// height frame, for driving a detector.MockDetector.
func Hands(path []detector.Point2D, width, height int) [][]detector.HandLandmarks {
	out := make([][]detector.HandLandmarks, len(path))
	for i, p := range path {
		// Nudge to the pixel centre so truncation lands back on p.
		x := (p.X + 0.5) / float64(width)
		y := (p.Y + 0.5) / float64(height)
		hand := detector.OpenPalmLandmarks()
		hand.Points[detector.ThumbTip] = detector.Point3D{X: x, Y: y}
		hand.Points[detector.IndexTip] = detector.Point3D{X: x, Y: y}
		hand.Points[detector.MiddleTip] = detector.Point3D{X: x, Y: y}
		out[i] = []detector.HandLandmarks{hand}
	}
	return out
}
