package announce

import (
	"context"
	"sync/atomic"

	"github.com/gen2brain/beeep"
)

const appName = "Mudra"

// notifyFunc matches beeep.Notify.
type notifyFunc func(title, message, appIcon string) error

// NotifySpeaker shows each utterance as a desktop notification.
type NotifySpeaker struct {
	enabled atomic.Bool
	notify  notifyFunc
}

// NewNotifySpeaker creates a NotifySpeaker. A disabled speaker drops every
// utterance.
func NewNotifySpeaker(enabled bool) *NotifySpeaker {
	n := &NotifySpeaker{notify: beeep.Notify}
	n.enabled.Store(enabled)
	return n
}

// SetEnabled turns notifications on or off.
func (n *NotifySpeaker) SetEnabled(enabled bool) {
	n.enabled.Store(enabled)
}

// Enabled reports whether notifications are shown.
func (n *NotifySpeaker) Enabled() bool {
	return n.enabled.Load()
}

// Speak implements Speaker.
func (n *NotifySpeaker) Speak(ctx context.Context, u Utterance) error {
	if !n.enabled.Load() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.notify(appName, u.Text, "")
}

// Cancel is a no-op: a notification cannot be withdrawn once shown.
func (n *NotifySpeaker) Cancel() {}

var _ Speaker = (*NotifySpeaker)(nil)
