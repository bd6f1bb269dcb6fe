package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/waesteves/rastreador-api/models"
)

// WSClient is one connected map viewer. Writes are serialized per connection
// since gorilla/websocket allows a single concurrent writer.
type WSClient struct {
	Conn *websocket.Conn
	mu   sync.Mutex
}

func (c *WSClient) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// Ping sends a websocket ping to keep the connection alive through proxies.
func (c *WSClient) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

// RealtimeHub fans freshly ingested positions out to connected viewers.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastLocation pushes a position record to every viewer. Write errors
// are ignored; the read loop notices the dead connection and unregisters it.
func (h *RealtimeHub) BroadcastLocation(loc models.Location) {
	msg, _ := json.Marshal(loc)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.write(websocket.TextMessage, msg)
	}
}
