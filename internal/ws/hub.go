package ws

import (
	"sync"

	"security-monitor/internal/logger"

	"go.uber.org/zap"
)

// Conn is the subset of *websocket.Conn the hub needs. Tests substitute their
// own implementations.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client wraps a subscriber connection. Writes are serialized per connection:
// gorilla allows only one concurrent writer.
type Client struct {
	conn Conn
	mu   sync.Mutex
}

// Send delivers one message to this subscriber.
func (c *Client) Send(message interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(message)
}

// Hub owns the set of live subscriber connections and fans out messages to
// all of them. A failing subscriber is dropped without affecting the others.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a new subscriber and returns its client handle.
func (h *Hub) Register(conn Conn) *Client {
	client := &Client{conn: conn}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	logger.Info("Subscriber connected", zap.Int("total", total))
	return client
}

// Unregister removes a subscriber. Removing an already-absent client is a
// no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	remaining := len(h.clients)
	h.mu.Unlock()

	if ok {
		_ = client.conn.Close()
		logger.Info("Subscriber disconnected", zap.Int("remaining", remaining))
	}
}

// Broadcast delivers message to every registered subscriber, best-effort. A
// subscriber whose write fails is deregistered; delivery to the rest proceeds
// and no error reaches the caller.
func (h *Hub) Broadcast(message interface{}) {
	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		snapshot = append(snapshot, client)
	}
	h.mu.RUnlock()

	for _, client := range snapshot {
		if err := client.Send(message); err != nil {
			logger.Error("Error sending message to subscriber", zap.Error(err))
			h.Unregister(client)
		}
	}
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
