package realtime

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
)

// Event types broadcast to board clients.
const (
	EventTaskCreated       = "task_created"
	EventTaskUpdated       = "task_updated"
	EventTaskStatusChanged = "task_status_changed"
	EventTaskDeleted       = "task_deleted"
)

// Event is one board change notification.
type Event struct {
	Type      string `json:"type"`
	TaskID    string `json:"taskId"`
	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Client represents a single websocket client connection.
// Send must not block: Broadcast runs on the request goroutine.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains the connected board clients and broadcasts events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}
	closed  bool
	logger  *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client. It reports false once the hub is closed.
func (h *Hub) Register(client Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[client] = struct{}{}
	return true
}

// Unregister removes a client.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if ok := c.Send(message); !ok {
			// the handler's read loop notices the broken conn and unregisters it
			h.logger.Debug("dropped event for client")
		}
	}
}

// Publish encodes evt and broadcasts it. Failures are logged, never returned.
func (h *Hub) Publish(evt Event) {
	b, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("encode board event", "type", evt.Type, "err", err)
		return
	}
	h.Broadcast(b)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}
