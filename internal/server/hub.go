package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/announce"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/transport"
)

// Event types sent on /api/events.
const (
	EventHello        = "hello"
	EventFrame        = "frame"
	EventStatus       = "status"
	EventSpeak        = "speak"
	EventSpeechCancel = "speech_cancel"
	EventMedia        = "media"
	EventError        = "error"

	// EventMediaSync is sent by the page to report its player state.
	EventMediaSync = "media_sync"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// Event is a message on the events websocket. Fields are set according to
// Type.
type Event struct {
	Type     string           `json:"type"`
	ClientID string           `json:"client_id,omitempty"`
	Text     string           `json:"text,omitempty"`
	Lang     string           `json:"lang,omitempty"`
	Rate     float64          `json:"rate,omitempty"`
	Playing  *bool            `json:"playing,omitempty"`
	Position *float64         `json:"position,omitempty"`
	Status   app.Status       `json:"status,omitempty"`
	Frame    *app.FrameResult `json:"frame,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every page connected on /api/events. It is the
// speech output of the page: Speak and Cancel become speak and
// speech_cancel events.
type Hub struct {
	logger  *slog.Logger
	metrics *metrics.Manager

	mu          sync.RWMutex
	clients     map[string]*client
	onMediaSync func(transport.State)
}

// NewHub creates an empty Hub. m may be nil.
func NewHub(logger *slog.Logger, m *metrics.Manager) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger.With("component", "hub"),
		metrics: m,
		clients: make(map[string]*client),
	}
}

// OnMediaSync registers fn to receive player state reported by a page.
func (h *Hub) OnMediaSync(fn func(transport.State)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMediaSync = fn
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade error", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.register(c)
	h.sendTo(c, Event{Type: EventHello, ClientID: c.id})

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected", "client_id", c.id, "clients", n)
	if h.metrics != nil {
		h.metrics.SetClients(n)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("client disconnected", "client_id", c.id, "clients", n)
		if h.metrics != nil {
			h.metrics.SetClients(n)
		}
	}
}

// readPump handles messages from the page until the connection fails.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", "client_id", c.id, "error", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			h.logger.Warn("invalid event", "client_id", c.id, "error", err)
			continue
		}
		h.handleEvent(c, ev)
	}
}

func (h *Hub) handleEvent(c *client, ev Event) {
	switch ev.Type {
	case EventMediaSync:
		h.mu.RLock()
		fn := h.onMediaSync
		h.mu.RUnlock()
		if fn == nil {
			return
		}
		var s transport.State
		if ev.Playing != nil {
			s.Playing = *ev.Playing
		}
		if ev.Position != nil {
			s.Position = *ev.Position
		}
		fn(s)
	default:
		h.logger.Debug("ignoring event", "client_id", c.id, "type", ev.Type)
	}
}

// writePump writes queued events and keeps the connection alive with pings.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast queues ev for every client. A client whose queue is full is
// dropped.
func (h *Hub) Broadcast(ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to encode event", "type", ev.Type, "error", err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow client", "client_id", c.id)
		h.unregister(c)
	}
}

func (h *Hub) sendTo(c *client, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// PublishFrame sends a frame result.
func (h *Hub) PublishFrame(res app.FrameResult) {
	h.Broadcast(Event{Type: EventFrame, Frame: &res})
}

// PublishStatus sends a camera status change.
func (h *Hub) PublishStatus(s app.Status) {
	h.Broadcast(Event{Type: EventStatus, Status: s})
}

// PublishMedia sends the media element state.
func (h *Hub) PublishMedia(s transport.State) {
	h.Broadcast(Event{Type: EventMedia, Playing: &s.Playing, Position: &s.Position})
}

// Speak implements announce.Speaker. The page speaks the text; Speak
// returns once the event is queued.
func (h *Hub) Speak(ctx context.Context, u announce.Utterance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.Broadcast(Event{Type: EventSpeak, Text: u.Text, Lang: u.Lang, Rate: u.Rate})
	return nil
}

// Cancel implements announce.Speaker.
func (h *Hub) Cancel() {
	h.Broadcast(Event{Type: EventSpeechCancel})
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

var _ announce.Speaker = (*Hub)(nil)
