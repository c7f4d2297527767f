// Package history keeps a short, newest-first log of recognized gestures.
package history

import (
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 5

// TimeLayout formats entry timestamps.
const TimeLayout = "15:04:05"

// Entry is one recorded classification.
type Entry struct {
	Time    time.Time       `json:"time"`
	Gesture gesture.Gesture `json:"gesture"`
}

// String renders the entry as "HH:MM:SS: Gesture Name".
func (e Entry) String() string {
	return fmt.Sprintf("%s: %s", e.Time.Format(TimeLayout), e.Gesture)
}

// Log is a bounded history, newest entry first. Every recorded frame gets
// its own entry, repeats included. Log is not safe for concurrent use.
type Log struct {
	entries  []Entry
	capacity int
}

// New creates an empty log. A non-positive capacity uses DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Record prepends an entry and drops the oldest once over capacity.
func (l *Log) Record(g gesture.Gesture, now time.Time) {
	if len(l.entries) < l.capacity {
		l.entries = append(l.entries, Entry{})
	}
	copy(l.entries[1:], l.entries[:len(l.entries)-1])
	l.entries[0] = Entry{Time: now, Gesture: g}
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines renders every entry, newest first.
func (l *Log) Lines() []string {
	lines := make([]string, len(l.entries))
	for i, e := range l.entries {
		lines[i] = e.String()
	}
	return lines
}

// Len returns the number of entries held.
func (l *Log) Len() int {
	return len(l.entries)
}

// Capacity returns the maximum number of entries held.
func (l *Log) Capacity() int {
	return l.capacity
}
