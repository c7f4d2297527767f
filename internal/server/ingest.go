package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LandmarksHandler accepts detection frames from the page over a websocket.
// Every message is one frame in the detector.Frame format; each is handled
// by the app and answered with the frame result.
type LandmarksHandler struct {
	app     *app.App
	metrics *metrics.Manager
	logger  *slog.Logger
}

// NewLandmarksHandler creates a LandmarksHandler. m may be nil.
func NewLandmarksHandler(a *app.App, m *metrics.Manager, logger *slog.Logger) *LandmarksHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LandmarksHandler{
		app:     a,
		metrics: m,
		logger:  logger.With("component", "ingest"),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		hands, err := detector.DecodeFrame(data)
		if err != nil {
			// A malformed frame is dropped; the next one is independent.
			h.logger.Warn("dropping malformed frame", "error", err)
			if errors.Is(err, detector.ErrLandmarkCount) && h.metrics != nil {
				h.metrics.RecordRejectedFrame()
			}
			if err := conn.WriteJSON(Event{Type: EventError, Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		res := h.app.HandleResults(hands)
		if err := conn.WriteJSON(Event{Type: EventFrame, Frame: &res}); err != nil {
			return
		}
	}
}
