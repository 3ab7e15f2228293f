// Package realtime pushes change notifications to subscribed clients over
// WebSocket. Events carry no row data; subscribers re-fetch the availability
// snapshot, which is a full replace, so delivery order cannot corrupt state.
package realtime

import (
	"context"
	"log/slog"
	"sync"
)

// Event types pushed to subscribers.
const (
	EventSlotsChanged      = "slots_changed"
	EventAttendanceChanged = "attendance_changed"
)

// Event is a change notification scoped to a single booking date.
type Event struct {
	Type  string `json:"type"`
	Table string `json:"table"`
	Date  string `json:"date"`
}

// Hub maintains the set of active clients and fans events out to the ones
// subscribed to the event's date.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations and broadcasts until ctx is canceled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			slog.Debug("realtime client connected", slog.String("date", c.date), slog.Int("total", total))
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			slog.Debug("realtime client disconnected", slog.Int("total", total))
		case ev := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if c.date != "" && c.date != ev.Date {
					continue
				}
				select {
				case c.send <- ev:
				default:
					// Slow client: drop it rather than stall the loop.
					go h.dropSlow(ctx, c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// dropSlow hands a saturated client to the unregister channel. The ctx guard
// lets the goroutine exit instead of blocking forever when Run has already
// stopped consuming.
func (h *Hub) dropSlow(ctx context.Context, c *Client) {
	select {
	case h.unregister <- c:
	case <-ctx.Done():
	}
}

// Publish queues an event for broadcast. It never blocks the caller; when
// the queue is saturated the event is dropped, which is safe because
// subscribers re-fetch full snapshots.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- ev:
	default:
		slog.Warn("realtime broadcast queue full, dropping event", slog.String("type", ev.Type), slog.String("date", ev.Date))
	}
}

// SlotsChanged publishes a slots-changed notification for table rows on date.
func (h *Hub) SlotsChanged(table, date string) {
	h.Publish(Event{Type: EventSlotsChanged, Table: table, Date: date})
}

// AttendanceChanged publishes an attendance-mark notification for date.
func (h *Hub) AttendanceChanged(table, date string) {
	h.Publish(Event{Type: EventAttendanceChanged, Table: table, Date: date})
}
