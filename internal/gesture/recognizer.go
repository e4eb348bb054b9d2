package gesture

import (
	"sync/atomic"

	"github.com/ayusman/spellcast/internal/detector"
)

// Result describes what happened during one Step.
type Result struct {
	// Hand is true when a well-formed hand was observed.
	Hand bool
	// Pinching is true when the hand passed the pinch gate.
	Pinching bool
	// Swipe and Curve are the candidates detected this frame, if any.
	Swipe Direction
	Curve Rotation
	// Accepted is the combo accepted this frame, if any.
	Accepted Combo
	// Published is the active combo after this frame.
	Published Combo
	// Cooldown is the number of frames left before detection re-arms.
	Cooldown int
}

// Snapshot is the read-only view of the recognizer published after each
// frame. Snapshots are never mutated once published.
type Snapshot struct {
	Frame    uint64
	Combo    Combo
	Cooldown int
	Pinching bool
	Samples  int
}

// Label returns the active combo label, or "" when none is active.
func (s Snapshot) Label() string {
	return s.Combo.String()
}

// Recognizer is the gesture state machine. It owns the position tracker,
// the pending swipe and curve, and the cooldown.
//
// Step must be called from a single goroutine, once per frame, in frame
// order. Current may be called concurrently from any goroutine.
type Recognizer struct {
	gate           PinchGate
	swipe          SwipeDetector
	curve          CurveDetector
	tracker        *Tracker
	cooldownFrames int

	frame         uint64
	lastSwipe     Direction
	lastCurve     Rotation
	comboDetected bool
	cooldown      int
	published     Combo

	snapshot atomic.Pointer[Snapshot]

	// OnAccept, when set, is called from Step whenever a combo is accepted.
	OnAccept func(Combo)
}

// NewRecognizer creates a Recognizer. Params are validated.
func NewRecognizer(p Params) (*Recognizer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r := &Recognizer{
		gate:           PinchGate{Threshold: p.PinchThreshold},
		swipe:          SwipeDetector{Threshold: p.SwipeThreshold, MinDwell: p.MinDwellFrames},
		curve:          CurveDetector{Threshold: p.CurveThreshold, MinPoints: p.MinCurvePoints},
		tracker:        NewTracker(p.WindowSize),
		cooldownFrames: p.CooldownFrames(),
	}
	r.publish(false)
	return r, nil
}

// Step advances the state machine by one frame. tips is nil when no hand
// was seen; non-finite tips are treated the same way.
func (r *Recognizer) Step(tips *detector.Fingertips) Result {
	r.frame++
	r.tickCooldown()

	res := Result{}

	if tips == nil || !tips.Finite() {
		r.interrupt()
		return r.finish(res)
	}
	res.Hand = true

	if !r.gate.Pinching(*tips) {
		r.interrupt()
		return r.finish(res)
	}
	res.Pinching = true

	r.tracker.Observe(Centroid(*tips))

	w := r.tracker.Window()
	seen := r.tracker.FramesSeen()
	if seen <= r.swipe.MinDwell || w.Len() <= r.swipe.MinDwell {
		return r.finish(res)
	}

	if !r.comboDetected {
		if dir, ok := r.swipe.Detect(w, seen); ok {
			r.lastSwipe = dir
			res.Swipe = dir
		}
		if rot, ok := r.curve.Detect(w.Points()); ok {
			r.lastCurve = rot
			res.Curve = rot
		}
	}

	if r.lastSwipe != DirectionNone && r.lastCurve != RotationNone && !r.comboDetected {
		if combo := Resolve(r.lastCurve, r.lastSwipe); combo != ComboNone {
			r.accept(combo)
			res.Accepted = combo
		}
		// Both halves are consumed by every attempt, matched or not.
		r.lastSwipe = DirectionNone
		r.lastCurve = RotationNone
	}

	return r.finish(res)
}

// Current returns the most recently published snapshot.
func (r *Recognizer) Current() Snapshot {
	return *r.snapshot.Load()
}

// Reset returns the recognizer to its initial state, dropping any active
// combo and cooldown.
func (r *Recognizer) Reset() {
	r.interrupt()
	r.rearm()
	r.cooldown = 0
	r.publish(false)
}

// CooldownFrames returns the cooldown length in frames.
func (r *Recognizer) CooldownFrames() int {
	return r.cooldownFrames
}

// tickCooldown holds the published combo while the cooldown runs and
// re-arms detection on the first frame that finds it already at zero.
func (r *Recognizer) tickCooldown() {
	if r.cooldown < 0 {
		panic("gesture: negative cooldown")
	}
	if r.cooldown > 0 {
		r.cooldown--
		return
	}
	r.rearm()
}

func (r *Recognizer) rearm() {
	r.comboDetected = false
	r.published = ComboNone
}

// interrupt drops the tracked motion and any unpaired candidates.
func (r *Recognizer) interrupt() {
	r.tracker.Reset()
	r.lastSwipe = DirectionNone
	r.lastCurve = RotationNone
}

func (r *Recognizer) accept(combo Combo) {
	r.comboDetected = true
	r.cooldown = r.cooldownFrames
	r.published = combo
	if r.OnAccept != nil {
		r.OnAccept(combo)
	}
}

func (r *Recognizer) finish(res Result) Result {
	res.Published = r.published
	res.Cooldown = r.cooldown
	r.publish(res.Pinching)
	return res
}

func (r *Recognizer) publish(pinching bool) {
	r.snapshot.Store(&Snapshot{
		Frame:    r.frame,
		Combo:    r.published,
		Cooldown: r.cooldown,
		Pinching: pinching,
		Samples:  r.tracker.Window().Len(),
	})
}
