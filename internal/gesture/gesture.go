// Package gesture classifies a single hand pose into one of a fixed set of
// gestures.
package gesture

import "fmt"

// Gesture is the label assigned to a hand pose.
type Gesture int

const (
	// Unknown is returned when no rule matches.
	Unknown Gesture = iota
	ThumbsUp
	Fist
	OpenPalm
	Pointing
)

var names = map[Gesture]string{
	Unknown:  "Unknown Gesture",
	ThumbsUp: "Thumbs Up",
	Fist:     "Fist",
	OpenPalm: "Open Palm",
	Pointing: "Pointing",
}

var icons = map[Gesture]string{
	Unknown:  "❓",
	ThumbsUp: "👍",
	Fist:     "✊",
	OpenPalm: "🖐️",
	Pointing: "👉",
}

// All lists every gesture in classification priority order, Unknown last.
var All = []Gesture{ThumbsUp, OpenPalm, Fist, Pointing, Unknown}

// String returns the display name, e.g. "Thumbs Up".
func (g Gesture) String() string {
	if n, ok := names[g]; ok {
		return n
	}
	return fmt.Sprintf("Gesture(%d)", int(g))
}

// Icon returns the emoji shown next to the gesture name.
func (g Gesture) Icon() string {
	return icons[g]
}

// MarshalText encodes the gesture as its display name.
func (g Gesture) MarshalText() ([]byte, error) {
	if _, ok := names[g]; !ok {
		return nil, fmt.Errorf("unknown gesture value %d", int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText accepts a display name.
func (g *Gesture) UnmarshalText(text []byte) error {
	for k, n := range names {
		if n == string(text) {
			*g = k
			return nil
		}
	}
	return fmt.Errorf("unknown gesture %q", text)
}
