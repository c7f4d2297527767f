package tray

import "testing"

func TestTray_StateBeforeReady(t *testing.T) {
	tr := New("Camera Off")

	if tr.Status() != "Camera Off" {
		t.Errorf("Status() = %q", tr.Status())
	}

	tr.SetStatus("Camera Running")
	tr.SetLastGesture("Fist")

	if tr.Status() != "Camera Running" {
		t.Errorf("Status() = %q, want Camera Running", tr.Status())
	}
	if tr.LastGesture() != "Fist" {
		t.Errorf("LastGesture() = %q, want Fist", tr.LastGesture())
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New("Camera Off")

	toggles := 0
	tr.OnToggle(func() { toggles++ })
	tr.call(func() func() { return tr.onToggle })
	tr.call(func() func() { return tr.onOpenPage })

	if toggles != 1 {
		t.Errorf("toggle callback ran %d times, want 1", toggles)
	}
}

func TestLastGestureTitle(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "", want: "Last: none"},
		{name: "Thumbs Up", want: "Last: Thumbs Up"},
	}

	for _, tt := range tests {
		if got := lastGestureTitle(tt.name); got != tt.want {
			t.Errorf("lastGestureTitle(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
