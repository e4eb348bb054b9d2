package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/spellcast/internal/detector"
	"github.com/ayusman/spellcast/internal/gesture/gesturetest"
)

func toPoints(path []detector.Point2D) []Point {
	out := make([]Point, len(path))
	for i, p := range path {
		out[i] = Point{X: int(p.X), Y: int(p.Y)}
	}
	return out
}

func windowOf(points []Point) *Window {
	w := NewWindow(DefaultWindowSize)
	for _, p := range points {
		w.Push(p)
	}
	return w
}

func TestSwipeDetector_Classify(t *testing.T) {
	d := SwipeDetector{Threshold: DefaultSwipeThreshold, MinDwell: DefaultMinDwellFrames}

	tests := []struct {
		name   string
		delta  Point
		want   Direction
		wantOK bool
	}{
		{"right", Point{130, 5}, DirectionRight, true},
		{"left", Point{-130, 40}, DirectionLeft, true},
		{"down", Point{10, 120}, DirectionDown, true},
		{"up", Point{-20, -111}, DirectionUp, true},
		{"below threshold", Point{110, 0}, DirectionNone, false},
		{"diagonal tie", Point{150, 150}, DirectionNone, false},
		{"vertical dominates large dx", Point{120, -130}, DirectionUp, true},
		{"no motion", Point{}, DirectionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Classify(tt.delta)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Classify(%+v) = %v,%v want %v,%v", tt.delta, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSwipeDetector_HorizontalFollowsSignOfDx(t *testing.T) {
	d := SwipeDetector{Threshold: DefaultSwipeThreshold, MinDwell: DefaultMinDwellFrames}

	for dx := -400; dx <= 400; dx += 7 {
		for dy := -400; dy <= 400; dy += 13 {
			if abs(dx) <= DefaultSwipeThreshold || abs(dx) <= abs(dy) {
				continue
			}
			want := DirectionLeft
			if dx > 0 {
				want = DirectionRight
			}
			if got, ok := d.Classify(Point{dx, dy}); !ok || got != want {
				t.Fatalf("Classify(%d,%d) = %v,%v want %v", dx, dy, got, ok, want)
			}
		}
	}
}

func TestSwipeDetector_Dwell(t *testing.T) {
	d := SwipeDetector{Threshold: DefaultSwipeThreshold, MinDwell: DefaultMinDwellFrames}

	// Five samples cover 200 px but are not enough to dwell.
	w := windowOf([]Point{{0, 0}, {50, 0}, {100, 0}, {150, 0}, {200, 0}})
	if _, ok := d.Detect(w, 5); ok {
		t.Error("expected no swipe with five samples")
	}

	w.Push(Point{250, 0})
	if _, ok := d.Detect(w, 5); ok {
		t.Error("expected no swipe when frames seen does not exceed dwell")
	}
	if dir, ok := d.Detect(w, 6); !ok || dir != DirectionRight {
		t.Errorf("Detect = %v,%v want right", dir, ok)
	}
}

func TestCurveDetector(t *testing.T) {
	d := CurveDetector{Threshold: DefaultCurveThreshold, MinPoints: DefaultMinCurvePoints}

	t.Run("clockwise arc", func(t *testing.T) {
		pts := toPoints(gesturetest.ClockwiseArc())
		rot, ok := d.Detect(pts)
		if !ok || rot != RotationClockwise {
			t.Errorf("Detect = %v,%v want clockwise", rot, ok)
		}

		stats := Analyze(pts)
		if stats.Winding <= 0 {
			t.Errorf("Winding = %f, want positive", stats.Winding)
		}
		if math.Abs(stats.MeanTurn) >= DefaultCurveThreshold {
			t.Errorf("MeanTurn = %f, want below threshold", stats.MeanTurn)
		}
	})

	t.Run("reversed arc is counter-clockwise", func(t *testing.T) {
		pts := toPoints(gesturetest.Reverse(gesturetest.ClockwiseArc()))
		rot, ok := d.Detect(pts)
		if !ok || rot != RotationCounterClockwise {
			t.Errorf("Detect = %v,%v want counter-clockwise", rot, ok)
		}
	})

	t.Run("too few points", func(t *testing.T) {
		pts := toPoints(gesturetest.ClockwiseArc())[:11]
		if rot, ok := d.Detect(pts); ok {
			t.Errorf("Detect = %v, want none for 11 points", rot)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if rot, ok := d.Detect(nil); ok {
			t.Errorf("Detect = %v, want none", rot)
		}
		if stats := Analyze(nil); stats.Steps != 0 {
			t.Errorf("Steps = %d, want 0", stats.Steps)
		}
	})

	t.Run("stationary hand", func(t *testing.T) {
		pts := make([]Point, 20)
		for i := range pts {
			pts[i] = Point{100, 100}
		}
		if rot, ok := d.Detect(pts); ok {
			t.Errorf("Detect = %v, want none when every step is degenerate", rot)
		}
	})

	t.Run("degenerate steps are skipped", func(t *testing.T) {
		arc := toPoints(gesturetest.ClockwiseArc())
		var stuttered []Point
		for i, p := range arc {
			stuttered = append(stuttered, p)
			if i == 4 || i == 8 {
				stuttered = append(stuttered, p)
			}
		}
		rot, ok := d.Detect(stuttered)
		if !ok || rot != RotationClockwise {
			t.Errorf("Detect = %v,%v want clockwise", rot, ok)
		}
		// Each repeated sample removes one turn from the path.
		if got, want := Analyze(stuttered).Steps, Analyze(arc).Steps-2; got != want {
			t.Errorf("Steps = %d, want %d", got, want)
		}
	})

	t.Run("sharp triangle loop is not a curve", func(t *testing.T) {
		corners := []Point{{0, 0}, {60, 0}, {30, 52}}
		var pts []Point
		for i := 0; i < 15; i++ {
			pts = append(pts, corners[i%3])
		}
		if rot, ok := d.Detect(pts); ok {
			t.Errorf("Detect = %v, want none", rot)
		}
	})

	t.Run("square loop is not a curve", func(t *testing.T) {
		// A square traced corner to corner turns a quarter turn per step.
		corners := []Point{{0, 0}, {40, 0}, {40, 40}, {0, 40}}
		var pts []Point
		for i := 0; i < 16; i++ {
			pts = append(pts, corners[i%4])
		}
		stats := Analyze(pts)
		if math.Abs(stats.MeanTurn-math.Pi/2) > epsilon {
			t.Errorf("MeanTurn = %f, want pi/2", stats.MeanTurn)
		}
		if rot, ok := d.Detect(pts); ok {
			t.Errorf("Detect = %v, want none", rot)
		}
	})

	t.Run("straight line is counter-clockwise", func(t *testing.T) {
		pts := make([]Point, 12)
		for i := range pts {
			pts[i] = Point{X: 10 * i}
		}
		if w := Analyze(pts).Winding; w != 0 {
			t.Fatalf("Winding = %f, want 0", w)
		}
		rot, ok := d.Detect(pts)
		if !ok || rot != RotationCounterClockwise {
			t.Errorf("Detect = %v,%v want counter-clockwise", rot, ok)
		}
		if rot, ok := d.Detect(pts[:11]); ok {
			t.Errorf("Detect = %v on 11 points, want none", rot)
		}
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		rot  Rotation
		dir  Direction
		want Combo
	}{
		{RotationClockwise, DirectionDown, ComboClockwiseDown},
		{RotationClockwise, DirectionLeft, ComboClockwiseLeft},
		{RotationCounterClockwise, DirectionUp, ComboCounterClockwiseUp},
		{RotationCounterClockwise, DirectionRight, ComboCounterClockwiseRight},
		{RotationClockwise, DirectionUp, ComboNone},
		{RotationClockwise, DirectionRight, ComboNone},
		{RotationCounterClockwise, DirectionDown, ComboNone},
		{RotationCounterClockwise, DirectionLeft, ComboNone},
		{RotationNone, DirectionDown, ComboNone},
		{RotationClockwise, DirectionNone, ComboNone},
	}

	for _, tt := range tests {
		t.Run(tt.rot.String()+"+"+tt.dir.String(), func(t *testing.T) {
			if got := Resolve(tt.rot, tt.dir); got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCombo_Labels(t *testing.T) {
	want := map[Combo]string{
		ComboClockwiseDown:         "Clockwise + Down",
		ComboClockwiseLeft:         "Clockwise + Left",
		ComboCounterClockwiseUp:    "Counter-Clockwise + Up",
		ComboCounterClockwiseRight: "Counter-Clockwise + Right",
	}
	for combo, label := range want {
		if combo.String() != label {
			t.Errorf("String = %q, want %q", combo.String(), label)
		}
		parsed, err := ParseCombo(label)
		if err != nil || parsed != combo {
			t.Errorf("ParseCombo(%q) = %v, %v", label, parsed, err)
		}
	}

	for _, c := range Combos {
		if rot, dir := c.Parts(); Resolve(rot, dir) != c {
			t.Errorf("Parts(%q) = %v, %v does not resolve back", c, rot, dir)
		}
	}
	if rot, dir := ComboNone.Parts(); rot != RotationNone || dir != DirectionNone {
		t.Errorf("ComboNone.Parts() = %v, %v", rot, dir)
	}

	if ComboNone.String() != "" {
		t.Errorf("ComboNone label = %q, want empty", ComboNone.String())
	}
	if _, err := ParseCombo("Clockwise + Up"); err == nil {
		t.Error("expected error for unknown combo")
	}
}
