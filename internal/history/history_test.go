package history

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

func TestLog_EvictsOldest(t *testing.T) {
	log := New(DefaultCapacity)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	seq := []gesture.Gesture{
		gesture.ThumbsUp, gesture.Fist, gesture.OpenPalm, gesture.Pointing,
		gesture.Unknown, gesture.Fist, gesture.ThumbsUp,
	}
	for i, g := range seq {
		log.Record(g, base.Add(time.Duration(i)*time.Second))
	}

	if log.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", log.Len())
	}

	entries := log.Entries()
	for i, e := range entries {
		want := seq[len(seq)-1-i]
		if e.Gesture != want {
			t.Errorf("entry %d = %v, want %v", i, e.Gesture, want)
		}
	}
	if entries[4].Time != base.Add(2*time.Second) {
		t.Errorf("oldest kept entry has time %v", entries[4].Time)
	}
}

func TestLog_Lines(t *testing.T) {
	log := New(0)
	log.Record(gesture.OpenPalm, time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC))
	log.Record(gesture.OpenPalm, time.Date(2024, 3, 1, 14, 5, 10, 0, time.UTC))

	lines := log.Lines()
	want := []string{"14:05:10: Open Palm", "14:05:09: Open Palm"}

	if len(lines) != len(want) {
		t.Fatalf("Lines() = %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestLog_EntriesIsACopy(t *testing.T) {
	log := New(2)
	log.Record(gesture.Fist, time.Now())

	entries := log.Entries()
	entries[0].Gesture = gesture.Pointing

	if log.Entries()[0].Gesture != gesture.Fist {
		t.Error("mutating Entries() result changed the log")
	}
	if log.Capacity() != 2 {
		t.Errorf("Capacity() = %d, want 2", log.Capacity())
	}
}
