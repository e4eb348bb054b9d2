package gesture

import (
	"math"

	"github.com/ayusman/spellcast/internal/detector"
)

// Distance returns the Euclidean distance between two pixel points.
func Distance(a, b detector.Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Centroid returns the mean of the three finger tips in whole pixels.
// Each tip is truncated to its pixel first and the mean is floored.
func Centroid(tips detector.Fingertips) Point {
	var sumX, sumY int
	pts := tips.Points()
	for _, p := range pts {
		sumX += int(p.X)
		sumY += int(p.Y)
	}
	return Point{
		X: floorDiv(sumX, len(pts)),
		Y: floorDiv(sumY, len(pts)),
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Cross returns the z component of v1 x v2. In image coordinates a positive
// value is a clockwise turn on screen.
func Cross(v1, v2 Point) int {
	return v1.X*v2.Y - v1.Y*v2.X
}

// Dot returns the dot product of v1 and v2.
func Dot(v1, v2 Point) int {
	return v1.X*v2.X + v1.Y*v2.Y
}

// TurnAngle returns the signed angle in radians needed to turn v1 onto v2,
// in (-pi, pi].
func TurnAngle(v1, v2 Point) float64 {
	return math.Atan2(float64(Cross(v1, v2)), float64(Dot(v1, v2)))
}
