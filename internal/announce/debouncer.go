// Package announce turns the per-frame gesture stream into spoken
// announcements, one utterance per change of gesture.
package announce

import "github.com/ayusman/mudra/internal/gesture"

// Debouncer suppresses announcing the same gesture twice in a row.
// The zero value has spoken nothing.
type Debouncer struct {
	last   gesture.Gesture
	spoken bool
}

// ShouldAnnounce reports whether g differs from the last announced gesture
// and, if so, records it as announced.
func (d *Debouncer) ShouldAnnounce(g gesture.Gesture) bool {
	if d.spoken && d.last == g {
		return false
	}
	d.last = g
	d.spoken = true
	return true
}

// Reset forgets the last announced gesture so the next one is spoken even
// if it repeats.
func (d *Debouncer) Reset() {
	d.last = gesture.Unknown
	d.spoken = false
}

// Last returns the last announced gesture and whether there is one.
func (d *Debouncer) Last() (gesture.Gesture, bool) {
	return d.last, d.spoken
}
