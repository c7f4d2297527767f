package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/history"
)

type fakeInterpreter struct {
	status  app.Status
	running bool
	err     error
	entries []history.Entry
	toggles int
}

func (f *fakeInterpreter) Status() app.Status { return f.status }
func (f *fakeInterpreter) CameraRunning() bool { return f.running }
func (f *fakeInterpreter) History() []history.Entry { return f.entries }

func (f *fakeInterpreter) LastResult() app.FrameResult {
	return app.FrameResult{HandCount: 1, Detected: true, Gesture: gesture.Fist, Label: "Fist", History: []string{}}
}

func (f *fakeInterpreter) ToggleCamera(ctx context.Context) (app.Status, error) {
	f.toggles++
	if f.err != nil {
		f.status = app.StatusDenied
		return f.status, f.err
	}
	f.running = !f.running
	if f.running {
		f.status = app.StatusRunning
	} else {
		f.status = app.StatusOff
	}
	return f.status, nil
}

func TestStatusHandler_Status(t *testing.T) {
	h := NewStatusHandler(&fakeInterpreter{status: app.StatusRunning, running: true})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Status        string `json:"status"`
		CameraRunning bool   `json:"camera_running"`
		Frame         struct {
			HandCount int    `json:"hand_count"`
			Gesture   string `json:"gesture"`
		} `json:"frame"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "Camera Running" || !resp.CameraRunning {
		t.Errorf("unexpected status %+v", resp)
	}
	if resp.Frame.HandCount != 1 || resp.Frame.Gesture != "Fist" {
		t.Errorf("unexpected frame %+v", resp.Frame)
	}
}

func TestStatusHandler_Camera(t *testing.T) {
	tests := []struct {
		name       string
		interp     *fakeInterpreter
		wantCode   int
		wantStatus app.Status
	}{
		{
			name:       "turns on",
			interp:     &fakeInterpreter{status: app.StatusOff},
			wantCode:   http.StatusOK,
			wantStatus: app.StatusRunning,
		},
		{
			name:       "turns off",
			interp:     &fakeInterpreter{status: app.StatusRunning, running: true},
			wantCode:   http.StatusOK,
			wantStatus: app.StatusOff,
		},
		{
			name:       "access denied",
			interp:     &fakeInterpreter{status: app.StatusOff, err: capture.ErrCameraUnavailable},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: app.StatusDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStatusHandler(tt.interp)

			req := httptest.NewRequest(http.MethodPost, "/api/camera", nil)
			rec := httptest.NewRecorder()
			h.Camera(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}

			var resp cameraResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if (tt.interp.err != nil) != (resp.Error != "") {
				t.Errorf("unexpected error field %q", resp.Error)
			}
		})
	}

	t.Run("only allows POST", func(t *testing.T) {
		interp := &fakeInterpreter{}
		rec := httptest.NewRecorder()
		NewStatusHandler(interp).Camera(rec, httptest.NewRequest(http.MethodGet, "/api/camera", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
		if interp.toggles != 0 {
			t.Error("GET must not toggle the camera")
		}
	})
}

func TestStatusHandler_History(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 30, 5, 0, time.Local)
	h := NewStatusHandler(&fakeInterpreter{entries: []history.Entry{
		{Time: at.Add(time.Second), Gesture: gesture.Pointing},
		{Time: at, Gesture: gesture.ThumbsUp},
	}})

	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	var resp historyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Entries))
	}
	if resp.Entries[0].Line != "09:30:06: Pointing" || resp.Entries[1].Gesture != "Thumbs Up" {
		t.Errorf("unexpected entries %+v", resp.Entries)
	}
	if resp.Entries[1].Icon != gesture.ThumbsUp.Icon() {
		t.Errorf("icon = %q", resp.Entries[1].Icon)
	}
}
