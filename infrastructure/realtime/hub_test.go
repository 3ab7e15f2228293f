package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, ts *httptest.Server, date string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	if date != "" {
		url += "?date=" + date
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		n := len(h.clients)
		h.mu.RUnlock()
		if n == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients", want)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestHubBroadcastsToSubscribers(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	ts := httptest.NewServer(h.Handler())
	defer ts.Close()

	conn := dialHub(t, ts, "")
	waitForClients(t, h, 1)

	h.SlotsChanged("annadanam_bookings", "2025-11-20")

	ev := readEvent(t, conn)
	if ev.Type != EventSlotsChanged || ev.Table != "annadanam_bookings" || ev.Date != "2025-11-20" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestHubFiltersByDate(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	ts := httptest.NewServer(h.Handler())
	defer ts.Close()

	filtered := dialHub(t, ts, "2025-11-20")
	unfiltered := dialHub(t, ts, "")
	waitForClients(t, h, 2)

	// An event for a different date must skip the filtered subscriber.
	h.AttendanceChanged("pooja_bookings", "2025-11-21")
	// The matching event follows; the filtered client must see only it.
	h.AttendanceChanged("pooja_bookings", "2025-11-20")

	ev := readEvent(t, filtered)
	if ev.Date != "2025-11-20" {
		t.Fatalf("filtered client got event for %q", ev.Date)
	}

	first := readEvent(t, unfiltered)
	second := readEvent(t, unfiltered)
	if first.Date != "2025-11-21" || second.Date != "2025-11-20" {
		t.Fatalf("unfiltered client got %q then %q", first.Date, second.Date)
	}
}

func TestDropSlowReturnsAfterShutdown(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With Run stopped nothing consumes unregister; the drop must still
	// return instead of parking forever.
	done := make(chan struct{})
	go func() {
		h.dropSlow(ctx, &Client{send: make(chan Event)})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dropSlow blocked after hub shutdown")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	// An unbuffered send channel with no reader saturates on the first event.
	slow := &Client{hub: h, send: make(chan Event)}
	h.register <- slow
	waitForClients(t, h, 1)

	h.SlotsChanged("annadanam_bookings", "2025-11-20")
	waitForClients(t, h, 0)
}

func TestHubRunShutdownClosesClients(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	ts := httptest.NewServer(h.Handler())
	defer ts.Close()

	conn := dialHub(t, ts, "")
	waitForClients(t, h, 1)

	cancel()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
