package announce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Default utterance parameters.
const (
	DefaultLang = "en-US"
	DefaultRate = 1.0
)

// ErrNoSpeaker is returned when a Speakers list is empty.
var ErrNoSpeaker = errors.New("no speaker configured")

// Utterance is one piece of text to be spoken.
type Utterance struct {
	Text string  `json:"text"`
	Lang string  `json:"lang"`
	Rate float64 `json:"rate"`
}

// Speaker renders utterances. Speak may block until the utterance finishes
// and should return early when ctx is cancelled. Cancel stops whatever is
// being spoken.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
	Cancel()
}

// Speakers fans an utterance out to every speaker in the list. Each speaker
// is tried even if an earlier one fails.
type Speakers struct {
	list   []Speaker
	logger *slog.Logger
}

// NewSpeakers creates a fan-out speaker.
func NewSpeakers(logger *slog.Logger, speakers ...Speaker) *Speakers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Speakers{
		list:   speakers,
		logger: logger.With("component", "announce.speakers"),
	}
}

// Speak implements Speaker.
func (s *Speakers) Speak(ctx context.Context, u Utterance) error {
	if len(s.list) == 0 {
		return ErrNoSpeaker
	}

	var errs []error
	for i, sp := range s.list {
		if err := sp.Speak(ctx, u); err != nil {
			s.logger.Warn("speaker failed", "speaker_index", i, "error", err)
			errs = append(errs, fmt.Errorf("speaker %d: %w", i, err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return errors.Join(errs...)
}

// Cancel implements Speaker.
func (s *Speakers) Cancel() {
	for _, sp := range s.list {
		sp.Cancel()
	}
}

// Len returns the number of speakers.
func (s *Speakers) Len() int {
	return len(s.list)
}

var _ Speaker = (*Speakers)(nil)
