// Package transport maps gestures onto media playback commands.
package transport

import (
	"fmt"

	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultSeekStep is how far each Pointing frame moves playback, in seconds.
const DefaultSeekStep = 5.0

// Media is a playback target with a mutable position in seconds.
type Media interface {
	Play() error
	Pause() error
	Position() float64
	SetPosition(sec float64) error
}

// Controller applies one transport command per classified frame:
//
//	ThumbsUp  play
//	Fist      pause
//	Pointing  seek forward by SeekStep
//	OpenPalm  seek to 0
//
// Commands are not debounced. Holding Pointing seeks on every frame.
type Controller struct {
	media    Media
	seekStep float64
}

// NewController creates a Controller. A non-positive seekStep uses
// DefaultSeekStep.
func NewController(media Media, seekStep float64) *Controller {
	if seekStep <= 0 {
		seekStep = DefaultSeekStep
	}
	return &Controller{media: media, seekStep: seekStep}
}

// Apply runs the command mapped to g. Unknown is a no-op.
func (c *Controller) Apply(g gesture.Gesture) error {
	var err error
	switch g {
	case gesture.ThumbsUp:
		err = c.media.Play()
	case gesture.Fist:
		err = c.media.Pause()
	case gesture.Pointing:
		err = c.media.SetPosition(c.media.Position() + c.seekStep)
	case gesture.OpenPalm:
		err = c.media.SetPosition(0)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", Command(g), err)
	}
	return nil
}

// SeekStep returns the relative seek applied per Pointing frame.
func (c *Controller) SeekStep() float64 {
	return c.seekStep
}

// Command names the transport command g maps to, or "" for none.
func Command(g gesture.Gesture) string {
	switch g {
	case gesture.ThumbsUp:
		return "play"
	case gesture.Fist:
		return "pause"
	case gesture.Pointing:
		return "seek_forward"
	case gesture.OpenPalm:
		return "rewind"
	}
	return ""
}
