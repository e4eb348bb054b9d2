package gesture

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/spellcast/internal/detector"
	"github.com/ayusman/spellcast/internal/gesture/gesturetest"
)

func newTestRecognizer(t *testing.T) *Recognizer {
	t.Helper()
	r, err := NewRecognizer(DefaultParams())
	if err != nil {
		t.Fatalf("NewRecognizer() error = %v", err)
	}
	return r
}

func feed(r *Recognizer, path []detector.Point2D) []Result {
	frames := gesturetest.Frames(path)
	results := make([]Result, len(frames))
	for i, tips := range frames {
		results[i] = r.Step(tips)
	}
	return results
}

func TestRecognizer_RightwardSwipe(t *testing.T) {
	r := newTestRecognizer(t)

	// Six samples, dx=130 and dy=5 end to end.
	var path []detector.Point2D
	for i := 0; i < 6; i++ {
		path = append(path, detector.Point2D{X: float64(200 + 26*i), Y: float64(200 + i)})
	}

	results := feed(r, path)
	for i, res := range results[:5] {
		if res.Swipe != DirectionNone {
			t.Errorf("frame %d: Swipe = %v before dwell", i+1, res.Swipe)
		}
	}

	last := results[5]
	if last.Swipe != DirectionRight {
		t.Errorf("Swipe = %v, want right", last.Swipe)
	}
	if last.Curve != RotationNone {
		t.Errorf("Curve = %v, want none", last.Curve)
	}
	if last.Accepted != ComboNone || last.Published != ComboNone {
		t.Errorf("Accepted/Published = %q/%q, want none", last.Accepted, last.Published)
	}
	if r.lastSwipe != DirectionRight {
		t.Errorf("pending swipe = %v, want right", r.lastSwipe)
	}
}

func TestRecognizer_Combos(t *testing.T) {
	tests := []struct {
		name string
		path []detector.Point2D
		rot  Rotation
		dir  Direction
		want Combo
	}{
		{"clockwise down", gesturetest.ClockwiseDown(), RotationClockwise, DirectionDown, ComboClockwiseDown},
		{"clockwise left", gesturetest.ClockwiseLeft(), RotationClockwise, DirectionLeft, ComboClockwiseLeft},
		{"counter-clockwise up", gesturetest.CounterClockwiseUp(), RotationCounterClockwise, DirectionUp, ComboCounterClockwiseUp},
		{"counter-clockwise right", gesturetest.CounterClockwiseRight(), RotationCounterClockwise, DirectionRight, ComboCounterClockwiseRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRecognizer(t)

			var accepted []Combo
			r.OnAccept = func(c Combo) { accepted = append(accepted, c) }

			results := feed(r, tt.path)

			firstCurve, firstSwipe, acceptedAt := -1, -1, -1
			for i, res := range results {
				if res.Curve != RotationNone && firstCurve < 0 {
					firstCurve = i
					if res.Curve != tt.rot {
						t.Errorf("frame %d: Curve = %v, want %v", i+1, res.Curve, tt.rot)
					}
				}
				if res.Swipe != DirectionNone && firstSwipe < 0 {
					firstSwipe = i
					if res.Swipe != tt.dir {
						t.Errorf("frame %d: Swipe = %v, want %v", i+1, res.Swipe, tt.dir)
					}
				}
				if res.Accepted != ComboNone && acceptedAt < 0 {
					acceptedAt = i
					if res.Accepted != tt.want {
						t.Errorf("frame %d: Accepted = %q, want %q", i+1, res.Accepted, tt.want)
					}
					if res.Cooldown != 60 {
						t.Errorf("Cooldown = %d at acceptance, want 60", res.Cooldown)
					}
				}
			}

			if firstCurve < 0 || firstSwipe < 0 || acceptedAt < 0 {
				t.Fatalf("curve/swipe/accept frames = %d/%d/%d, want all detected", firstCurve, firstSwipe, acceptedAt)
			}
			if firstCurve >= firstSwipe {
				t.Errorf("curve at frame %d, swipe at frame %d, want curve first", firstCurve+1, firstSwipe+1)
			}
			if acceptedAt != firstSwipe {
				t.Errorf("accepted at frame %d, want frame %d", acceptedAt+1, firstSwipe+1)
			}

			if len(accepted) != 1 || accepted[0] != tt.want {
				t.Errorf("OnAccept calls = %v, want [%q]", accepted, tt.want)
			}

			snap := r.Current()
			if snap.Label() != tt.want.String() {
				t.Errorf("Current().Label() = %q, want %q", snap.Label(), tt.want.String())
			}
			if snap.Frame != uint64(len(tt.path)) {
				t.Errorf("Current().Frame = %d, want %d", snap.Frame, len(tt.path))
			}
		})
	}
}

func TestRecognizer_CooldownSuppressesSecondCombo(t *testing.T) {
	r := newTestRecognizer(t)

	results := feed(r, gesturetest.ClockwiseDown())
	acceptFrame := 0
	for i, res := range results {
		if res.Accepted != ComboNone {
			acceptFrame = i + 1
		}
	}
	if acceptFrame == 0 {
		t.Fatal("first sequence was not accepted")
	}

	// Break the pinch, then perform the same gesture again mid-cooldown.
	r.Step(gesturetest.Open(gesturetest.Center))
	for i, res := range feed(r, gesturetest.ClockwiseDown()) {
		if res.Accepted != ComboNone {
			t.Fatalf("frame %d: accepted %q during cooldown", i+1, res.Accepted)
		}
		if res.Swipe != DirectionNone || res.Curve != RotationNone {
			t.Errorf("frame %d: candidates %v/%v detected during cooldown", i+1, res.Swipe, res.Curve)
		}
		if res.Published != ComboClockwiseDown {
			t.Errorf("frame %d: Published = %q, want held combo", i+1, res.Published)
		}
	}

	// The countdown reaches zero CooldownFrames frames after acceptance and
	// the label is still held on that frame.
	lastHeld := uint64(acceptFrame + r.CooldownFrames())
	for r.Current().Frame < lastHeld {
		r.Step(nil)
	}
	if got := r.Current().Combo; got != ComboClockwiseDown {
		t.Fatalf("frame %d: Combo = %q, want still held", lastHeld, got)
	}
	if got := r.Current().Cooldown; got != 0 {
		t.Errorf("Cooldown = %d on last held frame, want 0", got)
	}

	// The next frame clears it.

	res := r.Step(nil)
	if res.Published != ComboNone || res.Cooldown != 0 {
		t.Errorf("after cooldown: Published=%q Cooldown=%d, want none/0", res.Published, res.Cooldown)
	}

	// Re-armed: a fresh gesture is accepted again.
	var accepted Combo
	for _, res := range feed(r, gesturetest.ClockwiseLeft()) {
		if res.Accepted != ComboNone {
			accepted = res.Accepted
		}
	}
	if accepted != ComboClockwiseLeft {
		t.Errorf("Accepted = %q after re-arm, want %q", accepted, ComboClockwiseLeft)
	}
}

func TestRecognizer_InterruptionResetsTracking(t *testing.T) {
	rightward := func(from, n int) []detector.Point2D {
		var path []detector.Point2D
		for i := from; i < from+n; i++ {
			path = append(path, detector.Point2D{X: float64(100 + 30*i), Y: 200})
		}
		return path
	}

	interruptions := []struct {
		name string
		tips *detector.Fingertips
	}{
		{"no hand", nil},
		{"open hand", gesturetest.Open(detector.Point2D{X: 250, Y: 200})},
		{"non-finite tips", &detector.Fingertips{
			Thumb:  detector.Point2D{X: math.NaN(), Y: 0},
			Index:  detector.Point2D{X: 1, Y: 1},
			Middle: detector.Point2D{X: 2, Y: 2},
		}},
	}

	for _, tt := range interruptions {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRecognizer(t)

			feed(r, rightward(0, 5))
			if r.tracker.FramesSeen() != 5 {
				t.Fatalf("FramesSeen = %d, want 5", r.tracker.FramesSeen())
			}

			res := r.Step(tt.tips)
			if res.Pinching {
				t.Error("interrupting frame reported a pinch")
			}
			if r.tracker.FramesSeen() != 0 || r.tracker.Window().Len() != 0 {
				t.Fatalf("after interruption: frames=%d len=%d, want 0/0",
					r.tracker.FramesSeen(), r.tracker.Window().Len())
			}

			// Five more samples would complete a 300 px swipe if the halves
			// were bridged.
			for i, res := range feed(r, rightward(5, 5)) {
				if res.Swipe != DirectionNone {
					t.Errorf("frame %d: Swipe = %v across interruption", i+1, res.Swipe)
				}
			}
			if r.tracker.FramesSeen() != 5 {
				t.Errorf("FramesSeen = %d, want 5", r.tracker.FramesSeen())
			}
		})
	}
}

func TestRecognizer_InterruptionDropsPendingCurve(t *testing.T) {
	r := newTestRecognizer(t)

	feed(r, gesturetest.ClockwiseArc())
	if r.lastCurve != RotationClockwise {
		t.Fatalf("pending curve = %v, want clockwise", r.lastCurve)
	}

	r.Step(nil)
	if r.lastCurve != RotationNone {
		t.Errorf("pending curve = %v after interruption, want none", r.lastCurve)
	}
}

func TestRecognizer_UnmatchedPairClearsBoth(t *testing.T) {
	r := newTestRecognizer(t)

	// Clockwise then right is not a combo.
	path := gesturetest.CurveThenSwipe(true, 1, 0)

	sawPair := false
	for i, res := range feed(r, path) {
		if res.Accepted != ComboNone {
			t.Fatalf("frame %d: accepted %q", i+1, res.Accepted)
		}
		if res.Swipe == DirectionRight && res.Curve == RotationClockwise {
			sawPair = true
			if r.lastSwipe != DirectionNone || r.lastCurve != RotationNone {
				t.Errorf("frame %d: pending %v/%v after unmatched attempt, want both cleared",
					i+1, r.lastSwipe, r.lastCurve)
			}
		}
	}
	if !sawPair {
		t.Fatal("path never produced a clockwise curve alongside a right swipe")
	}
	if got := r.Current().Combo; got != ComboNone {
		t.Errorf("Current().Combo = %q, want none", got)
	}
}

func TestRecognizer_Reset(t *testing.T) {
	r := newTestRecognizer(t)
	feed(r, gesturetest.ClockwiseDown())
	if r.Current().Combo == ComboNone {
		t.Fatal("expected an active combo before Reset")
	}

	r.Reset()

	snap := r.Current()
	if snap.Combo != ComboNone || snap.Cooldown != 0 || snap.Samples != 0 {
		t.Errorf("after Reset: %+v, want empty", snap)
	}

	var accepted Combo
	for _, res := range feed(r, gesturetest.CounterClockwiseUp()) {
		if res.Accepted != ComboNone {
			accepted = res.Accepted
		}
	}
	if accepted != ComboCounterClockwiseUp {
		t.Errorf("Accepted = %q after Reset, want %q", accepted, ComboCounterClockwiseUp)
	}
}

func TestRecognizer_Snapshot(t *testing.T) {
	r := newTestRecognizer(t)

	snap := r.Current()
	if snap.Frame != 0 || snap.Combo != ComboNone || snap.Label() != "" {
		t.Errorf("initial snapshot = %+v, want zero", snap)
	}

	feed(r, gesturetest.ClockwiseArc()[:3])
	snap = r.Current()
	if snap.Frame != 3 || !snap.Pinching || snap.Samples != 3 {
		t.Errorf("snapshot = %+v, want frame 3 pinching with 3 samples", snap)
	}

	r.Step(nil)
	snap = r.Current()
	if snap.Pinching || snap.Samples != 0 {
		t.Errorf("snapshot = %+v, want released with no samples", snap)
	}
}

func TestRecognizer_ConcurrentReaders(t *testing.T) {
	r := newTestRecognizer(t)
	path := gesturetest.ClockwiseDown()

	var wg sync.WaitGroup
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := r.Current()
				if snap.Combo != ComboNone && snap.Cooldown == 0 {
					t.Errorf("torn snapshot: %+v", snap)
					return
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		feed(r, path)
		r.Step(nil)
	}
	close(done)
	wg.Wait()
}

func TestNewRecognizer_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"zero pinch threshold", func(p *Params) { p.PinchThreshold = 0 }},
		{"negative swipe threshold", func(p *Params) { p.SwipeThreshold = -1 }},
		{"zero curve threshold", func(p *Params) { p.CurveThreshold = 0 }},
		{"curve needs three points", func(p *Params) { p.MinCurvePoints = 2 }},
		{"window smaller than curve", func(p *Params) { p.WindowSize = 10 }},
		{"zero dwell", func(p *Params) { p.MinDwellFrames = 0 }},
		{"zero frame rate", func(p *Params) { p.FrameRate = 0 }},
		{"negative cooldown", func(p *Params) { p.Cooldown = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			if _, err := NewRecognizer(p); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParams_CooldownFrames(t *testing.T) {
	tests := []struct {
		rate     float64
		cooldown time.Duration
		want     int
	}{
		{30, 2 * time.Second, 60},
		{15, 2 * time.Second, 30},
		{60, 500 * time.Millisecond, 30},
		{24, time.Second, 24},
		{30, 0, 0},
	}

	for _, tt := range tests {
		p := DefaultParams()
		p.FrameRate = tt.rate
		p.Cooldown = tt.cooldown
		if got := p.CooldownFrames(); got != tt.want {
			t.Errorf("CooldownFrames(%v fps, %v) = %d, want %d", tt.rate, tt.cooldown, got, tt.want)
		}

		r, err := NewRecognizer(p)
		if err != nil {
			t.Fatalf("NewRecognizer() error = %v", err)
		}
		if r.CooldownFrames() != tt.want {
			t.Errorf("Recognizer.CooldownFrames() = %d, want %d", r.CooldownFrames(), tt.want)
		}
	}
}

func TestRecognizer_ZeroCooldown(t *testing.T) {
	p := DefaultParams()
	p.Cooldown = 0
	r, err := NewRecognizer(p)
	if err != nil {
		t.Fatalf("NewRecognizer() error = %v", err)
	}

	// Stop on the frame the swipe completes the combo.
	path := gesturetest.ClockwiseDown()[:gesturetest.ArcPoints+5]
	results := feed(r, path)
	if got := results[len(results)-1].Accepted; got != ComboClockwiseDown {
		t.Fatalf("Accepted = %q, want %q", got, ComboClockwiseDown)
	}

	// With no cooldown the label clears on the very next frame.
	if res := r.Step(nil); res.Published != ComboNone || res.Cooldown != 0 {
		t.Errorf("Published=%q Cooldown=%d, want none/0", res.Published, res.Cooldown)
	}
}

func TestRecognizer_CooldownHoldsLabel(t *testing.T) {
	p := DefaultParams()
	p.Cooldown = 100 * time.Millisecond // 3 frames at 30 fps
	r, err := NewRecognizer(p)
	if err != nil {
		t.Fatalf("NewRecognizer() error = %v", err)
	}
	if r.CooldownFrames() != 3 {
		t.Fatalf("CooldownFrames() = %d, want 3", r.CooldownFrames())
	}

	path := gesturetest.ClockwiseDown()[:gesturetest.ArcPoints+5]
	if got := feed(r, path)[len(path)-1].Accepted; got != ComboClockwiseDown {
		t.Fatalf("Accepted = %q, want %q", got, ComboClockwiseDown)
	}

	// Countdown 3 -> 2 -> 1 -> 0 with the label held, then cleared.
	for i, wantCooldown := range []int{2, 1, 0} {
		res := r.Step(nil)
		if res.Published != ComboClockwiseDown || res.Cooldown != wantCooldown {
			t.Errorf("frame %d after accept: Published=%q Cooldown=%d, want %q/%d",
				i+1, res.Published, res.Cooldown, ComboClockwiseDown, wantCooldown)
		}
	}
	if res := r.Step(nil); res.Published != ComboNone {
		t.Errorf("frame 4 after accept: Published = %q, want none", res.Published)
	}
}

func TestRecognizer_StraightRunIsCounterClockwise(t *testing.T) {
	r := newTestRecognizer(t)

	// Twelve samples 20 px apart: the swipe registers on frame 7 and the
	// straight window counts as a counter-clockwise curve on frame 12.
	path := gesturetest.Line(detector.Point2D{X: 80, Y: 200}, 20, 0, 12)

	results := feed(r, path)
	for i, res := range results[:11] {
		if res.Accepted != ComboNone {
			t.Fatalf("frame %d: accepted %q early", i+1, res.Accepted)
		}
	}
	last := results[11]
	if last.Curve != RotationCounterClockwise || last.Swipe != DirectionRight {
		t.Errorf("candidates = %v/%v, want counter-clockwise/right", last.Curve, last.Swipe)
	}
	if last.Accepted != ComboCounterClockwiseRight {
		t.Errorf("Accepted = %q, want %q", last.Accepted, ComboCounterClockwiseRight)
	}
}

func TestRecognizer_NegativeCooldownPanics(t *testing.T) {
	r := newTestRecognizer(t)
	r.cooldown = -1

	defer func() {
		if recover() == nil {
			t.Error("Step with a negative cooldown did not panic")
		}
	}()
	r.Step(nil)
}
