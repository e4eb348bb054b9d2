package gesture

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Curve detection defaults.
const (
	// DefaultCurveThreshold is the largest mean turning angle, in radians,
	// of a smooth curve.
	DefaultCurveThreshold = 0.3
	// DefaultMinCurvePoints is the shortest window a curve is looked for in.
	DefaultMinCurvePoints = 12
)

// CurveStats summarizes the turning of a path.
type CurveStats struct {
	// Steps is the number of non-degenerate consecutive triples.
	Steps int
	// MeanTurn is the mean signed turning angle per step, in radians.
	MeanTurn float64
	// Winding is the sum of the per-step cross products. Positive winds
	// clockwise on screen.
	Winding float64
}

// CurveDetector classifies the rotation of a path.
type CurveDetector struct {
	Threshold float64
	MinPoints int
}

// Analyze computes turning statistics over consecutive triples of points.
// Triples where either displacement is zero are skipped.
func Analyze(points []Point) CurveStats {
	if len(points) < 3 {
		return CurveStats{}
	}

	turns := make([]float64, 0, len(points)-2)
	crosses := make([]float64, 0, len(points)-2)

	for i := 1; i < len(points)-1; i++ {
		v1 := points[i].Sub(points[i-1])
		v2 := points[i+1].Sub(points[i])
		if v1.IsZero() || v2.IsZero() {
			continue
		}
		turns = append(turns, TurnAngle(v1, v2))
		crosses = append(crosses, float64(Cross(v1, v2)))
	}

	if len(turns) == 0 {
		return CurveStats{}
	}

	return CurveStats{
		Steps:    len(turns),
		MeanTurn: stat.Mean(turns, nil),
		Winding:  floats.Sum(crosses),
	}
}

// Detect returns the winding sense of a smooth curve through points.
// Paths shorter than MinPoints, paths with no usable steps and paths whose
// mean turn reaches Threshold (sharp corners) are not curves. Anything not
// winding clockwise, a straight run included, is counter-clockwise.
func (d CurveDetector) Detect(points []Point) (Rotation, bool) {
	if len(points) < d.MinPoints {
		return RotationNone, false
	}

	stats := Analyze(points)
	if stats.Steps == 0 || math.Abs(stats.MeanTurn) >= d.Threshold {
		return RotationNone, false
	}

	if stats.Winding > 0 {
		return RotationClockwise, true
	}
	return RotationCounterClockwise, true
}
