package api

import (
	"context"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/history"
)

// Interpreter is the view of the running app the status handlers need.
type Interpreter interface {
	Status() app.Status
	CameraRunning() bool
	LastResult() app.FrameResult
	ToggleCamera(ctx context.Context) (app.Status, error)
	History() []history.Entry
}

type statusResponse struct {
	Status        app.Status      `json:"status"`
	CameraRunning bool            `json:"camera_running"`
	Frame         app.FrameResult `json:"frame"`
}

type cameraResponse struct {
	Status app.Status `json:"status"`
	Error  string     `json:"error,omitempty"`
}

type historyEntry struct {
	Time    string `json:"time"`
	Gesture string `json:"gesture"`
	Icon    string `json:"icon"`
	Line    string `json:"line"`
}

type historyResponse struct {
	Entries []historyEntry `json:"entries"`
}

// StatusHandler serves the camera status, the last frame and the history.
type StatusHandler struct {
	app Interpreter
}

// NewStatusHandler creates a StatusHandler over a.
func NewStatusHandler(a Interpreter) *StatusHandler {
	return &StatusHandler{app: a}
}

// Status handles GET /api/status.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:        h.app.Status(),
		CameraRunning: h.app.CameraRunning(),
		Frame:         h.app.LastResult(),
	})
}

// Camera handles POST /api/camera, toggling the camera. A failed
// acquisition answers 503 with the resulting status.
func (h *StatusHandler) Camera(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := h.app.ToggleCamera(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, cameraResponse{Status: status, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, cameraResponse{Status: status})
}

// History handles GET /api/history.
func (h *StatusHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := h.app.History()
	response := historyResponse{Entries: make([]historyEntry, 0, len(entries))}
	for _, e := range entries {
		response.Entries = append(response.Entries, historyEntry{
			Time:    e.Time.Format(history.TimeLayout),
			Gesture: e.Gesture.String(),
			Icon:    e.Gesture.Icon(),
			Line:    e.String(),
		})
	}
	writeJSON(w, http.StatusOK, response)
}
