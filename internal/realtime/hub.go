// Package realtime fans dashboard events out to websocket clients.
package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/metrics"
)

// Event types pushed to clients.
const (
	EventSnapshot   = "market.snapshot"
	EventAlertFired = "alert.fired"
	EventAccess     = "access.changed"
)

// Event is the envelope of every pushed message.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const writeTimeout = 5 * time.Second

// client serialises writes; a gorilla connection supports one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// Hub tracks connected websocket clients and broadcasts events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// AddClient registers conn. Adding the same connection twice is a no-op.
func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; !ok {
		h.clients[conn] = &client{conn: conn}
		metrics.WebsocketClients.Inc()
	}
	h.mu.Unlock()
}

// RemoveClient unregisters conn and closes it.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		metrics.WebsocketClients.Dec()
	}
	h.mu.Unlock()
	_ = conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send writes v to a single registered connection.
func (h *Hub) Send(conn *websocket.Conn, v any) error {
	h.mu.RLock()
	c, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return websocket.ErrCloseSent
	}
	return c.writeJSON(v)
}

// BroadcastJSON writes v to every client. Clients whose write fails are dropped.
func (h *Hub) BroadcastJSON(v any) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(v); err != nil {
			h.RemoveClient(c.conn)
		}
	}
}

// Publish broadcasts an event envelope.
func (h *Hub) Publish(eventType string, data any) {
	h.BroadcastJSON(Event{Type: eventType, Data: data})
}

// Serve registers conn, sends hello if non-nil, and blocks reading until the
// client goes away. Inbound messages are discarded.
func (h *Hub) Serve(conn *websocket.Conn, hello any) {
	h.AddClient(conn)
	defer h.RemoveClient(conn)

	if hello != nil {
		if err := h.Send(conn, hello); err != nil {
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
