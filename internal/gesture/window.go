package gesture

// DefaultWindowSize is the number of positions kept for classification.
const DefaultWindowSize = 30

// Window is a fixed-capacity ring of positions in arrival order.
// Pushing onto a full window evicts the oldest position.
type Window struct {
	buf   []Point
	start int
	n     int
}

// NewWindow creates a window holding at most capacity positions.
// A non-positive capacity falls back to DefaultWindowSize.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}
	return &Window{buf: make([]Point, capacity)}
}

// Push appends p, evicting the oldest position if the window is full.
func (w *Window) Push(p Point) {
	if w.n < len(w.buf) {
		w.buf[(w.start+w.n)%len(w.buf)] = p
		w.n++
		return
	}
	w.buf[w.start] = p
	w.start = (w.start + 1) % len(w.buf)
}

// Len returns the number of positions held.
func (w *Window) Len() int {
	return w.n
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.buf)
}

// At returns the i-th oldest position. It panics if i is out of range.
func (w *Window) At(i int) Point {
	if i < 0 || i >= w.n {
		panic("gesture: window index out of range")
	}
	return w.buf[(w.start+i)%len(w.buf)]
}

// First returns the oldest position and false if the window is empty.
func (w *Window) First() (Point, bool) {
	if w.n == 0 {
		return Point{}, false
	}
	return w.At(0), true
}

// Last returns the newest position and false if the window is empty.
func (w *Window) Last() (Point, bool) {
	if w.n == 0 {
		return Point{}, false
	}
	return w.At(w.n - 1), true
}

// Points returns a copy of the positions, oldest first.
func (w *Window) Points() []Point {
	out := make([]Point, w.n)
	for i := range out {
		out[i] = w.At(i)
	}
	return out
}

// Reset empties the window.
func (w *Window) Reset() {
	w.start = 0
	w.n = 0
}
