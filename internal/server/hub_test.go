package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/announce"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/transport"
)

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForEvent reads events until one of type typ arrives.
func waitForEvent(t *testing.T, conn *websocket.Conn, typ string) Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("waiting for %q event: %v", typ, err)
		}
		if ev.Type == typ {
			return ev
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_Hello(t *testing.T) {
	hub := NewHub(nil, nil)
	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn := dial(t, ts, "/")
	ev := waitForEvent(t, conn, EventHello)

	if _, err := uuid.Parse(ev.ClientID); err != nil {
		t.Errorf("client id %q is not a UUID: %v", ev.ClientID, err)
	}
	if hub.Len() != 1 {
		t.Errorf("Len() = %d, want 1", hub.Len())
	}

	conn.Close()
	waitFor(t, func() bool { return hub.Len() == 0 })
}

func TestHub_Speaker(t *testing.T) {
	hub := NewHub(nil, nil)
	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn := dial(t, ts, "/")
	waitForEvent(t, conn, EventHello)

	if err := hub.Speak(context.Background(), announce.Utterance{Text: "Open Palm", Lang: "en-US", Rate: 1}); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	ev := waitForEvent(t, conn, EventSpeak)
	if ev.Text != "Open Palm" || ev.Lang != "en-US" || ev.Rate != 1 {
		t.Errorf("unexpected speak event %+v", ev)
	}

	hub.Cancel()
	waitForEvent(t, conn, EventSpeechCancel)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := hub.Speak(ctx, announce.Utterance{Text: "Fist"}); err == nil {
		t.Error("Speak() with cancelled context should fail")
	}
}

func TestHub_PublishAndSync(t *testing.T) {
	hub := NewHub(nil, nil)
	synced := make(chan transport.State, 1)
	hub.OnMediaSync(func(s transport.State) { synced <- s })

	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn := dial(t, ts, "/")
	waitForEvent(t, conn, EventHello)

	hub.PublishMedia(transport.State{Playing: true, Position: 15})
	ev := waitForEvent(t, conn, EventMedia)
	if ev.Playing == nil || !*ev.Playing || ev.Position == nil || *ev.Position != 15 {
		t.Errorf("unexpected media event %+v", ev)
	}

	hub.PublishStatus(app.StatusDenied)
	if ev := waitForEvent(t, conn, EventStatus); ev.Status != app.StatusDenied {
		t.Errorf("status = %q", ev.Status)
	}

	if err := conn.WriteJSON(map[string]any{"type": EventMediaSync, "playing": false, "position": 42.5}); err != nil {
		t.Fatalf("write media_sync: %v", err)
	}
	select {
	case s := <-synced:
		if s.Playing || s.Position != 42.5 {
			t.Errorf("synced state = %+v", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("media_sync not delivered")
	}
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(nil, nil)
	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn := dial(t, ts, "/")
	waitForEvent(t, conn, EventHello)

	hub.Close()

	if hub.Len() != 0 {
		t.Errorf("Len() = %d after Close", hub.Len())
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
