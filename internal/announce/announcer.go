package announce

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ayusman/mudra/internal/gesture"
)

// Announcer speaks a gesture's name whenever the gesture changes. A new
// announcement cancels the one in flight, so at most one utterance is
// active and the most recent wins.
//
// Announce and Reset must not be called concurrently with each other; the
// frame handler serializes them.
type Announcer struct {
	debouncer Debouncer
	speaker   Speaker
	lang      string
	rate      float64
	logger    *slog.Logger

	// OnError is called from the speaking goroutine when Speak fails for a
	// reason other than cancellation.
	OnError func(err error)

	mu     sync.Mutex // guards cancel, lang and rate
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// speakMu is held for a whole Speak call. An utterance superseded while
	// waiting for it is dropped, so speakers emit in announcement order.
	speakMu sync.Mutex
}

// NewAnnouncer creates an Announcer. Empty lang and non-positive rate fall
// back to DefaultLang and DefaultRate.
func NewAnnouncer(speaker Speaker, lang string, rate float64, logger *slog.Logger) *Announcer {
	if lang == "" {
		lang = DefaultLang
	}
	if rate <= 0 {
		rate = DefaultRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Announcer{
		speaker: speaker,
		lang:    lang,
		rate:    rate,
		logger:  logger.With("component", "announce"),
	}
}

// Announce speaks g unless it was the last gesture announced. It returns
// whether an utterance was started.
func (a *Announcer) Announce(g gesture.Gesture) bool {
	if !a.debouncer.ShouldAnnounce(g) {
		return false
	}

	a.interrupt()

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.cancel = cancel
	u := Utterance{Text: g.String(), Lang: a.lang, Rate: a.rate}
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()
		err := a.speak(ctx, u)
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		a.logger.Warn("speak failed", "text", u.Text, "error", err)
		if a.OnError != nil {
			a.OnError(err)
		}
	}()

	a.logger.Debug("announced", "gesture", g.String())
	return true
}

func (a *Announcer) speak(ctx context.Context, u Utterance) error {
	a.speakMu.Lock()
	defer a.speakMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return a.speaker.Speak(ctx, u)
}

// Reset forgets the last announced gesture. The utterance in flight, if
// any, is left to finish.
func (a *Announcer) Reset() {
	a.debouncer.Reset()
}

// SetVoice changes the language and rate used for later announcements.
func (a *Announcer) SetVoice(lang string, rate float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if lang != "" {
		a.lang = lang
	}
	if rate > 0 {
		a.rate = rate
	}
}

// Close cancels the utterance in flight and waits for it to return.
func (a *Announcer) Close() {
	a.interrupt()
	a.wg.Wait()
}

func (a *Announcer) interrupt() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.speaker.Cancel()
}
