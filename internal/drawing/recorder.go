package drawing

import (
	"image"
	"sync"
)

// Segment is one line recorded by a Recorder.
type Segment struct {
	From, To image.Point
	Stroke   Stroke
}

// Recorder is an in-memory Surface that records what was drawn. It backs
// headless runs and tests.
type Recorder struct {
	mu       sync.Mutex
	width    int
	height   int
	segments []Segment
	clears   int
}

// NewRecorder creates an empty Recorder of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

// Size implements Surface.
func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

// DrawLine implements Surface.
func (r *Recorder) DrawLine(from, to image.Point, s Stroke) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.segments = append(r.segments, Segment{From: from, To: to, Stroke: s})
}

// Clear implements Surface. Recorded segments are kept so callers can
// inspect the full history; Clears counts the wipes.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
}

// Segments returns a copy of every segment drawn.
func (r *Recorder) Segments() []Segment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Segment, len(r.segments))
	copy(out, r.segments)
	return out
}

// Clears returns how many times the surface was cleared.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}

var (
	_ Surface = (*Recorder)(nil)
	_ Surface = (*Canvas)(nil)
)
