package drawing

import (
	"image"
	"math"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// State is the pen state.
type State int

const (
	// Idle means the pen is lifted.
	Idle State = iota
	// Drawing means the next OpenPalm frame continues the current stroke.
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Machine tracks the pen across frames. OpenPalm draws with the index
// fingertip, Fist wipes the surface, and anything else lifts the pen.
type Machine struct {
	surface Surface
	stroke  Stroke
	prev    *image.Point
}

// NewMachine creates an idle Machine drawing onto surface.
func NewMachine(surface Surface, stroke Stroke) *Machine {
	return &Machine{surface: surface, stroke: stroke}
}

// Step advances the machine by one frame. tip is the index fingertip in
// normalized coordinates.
func (m *Machine) Step(g gesture.Gesture, tip detector.Point3D) {
	switch g {
	case gesture.OpenPalm:
		cur := m.scale(tip)
		if m.prev != nil {
			m.surface.DrawLine(*m.prev, cur, m.stroke)
		}
		m.prev = &cur
	case gesture.Fist:
		m.surface.Clear()
		m.prev = nil
	default:
		m.prev = nil
	}
}

// Lift handles a frame without a hand: the pen is lifted, nothing is drawn.
func (m *Machine) Lift() {
	m.prev = nil
}

// State reports whether a stroke is in progress.
func (m *Machine) State() State {
	if m.prev != nil {
		return Drawing
	}
	return Idle
}

func (m *Machine) scale(p detector.Point3D) image.Point {
	w, h := m.surface.Size()
	return image.Point{
		X: int(math.Round(p.X * float64(w))),
		Y: int(math.Round(p.Y * float64(h))),
	}
}
