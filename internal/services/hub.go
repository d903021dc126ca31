package services

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	EventGenerateStarted   = "generate.started"
	EventGenerateCompleted = "generate.completed"
	EventGenerateFailed    = "generate.failed"
)

type WSEvent struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Prompt    string `json:"prompt,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Hub fans generation events out to websocket subscribers keyed by client id.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*WSClient
}

func safeCloseBytes(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func NewHub() *Hub {
	return &Hub{
		clients: map[string]*WSClient{},
	}
}

func (h *Hub) Add(c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[c.id]; ok {
		safeCloseBytes(old.send)
		_ = old.conn.Close()
	}

	h.clients[c.id] = c
}

// Remove drops c only if it is still the registered client for its id.
func (h *Hub) Remove(c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.clients[c.id]; ok && cur == c {
		delete(h.clients, c.id)
		safeCloseBytes(c.send)
		_ = c.conn.Close()
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := h.clients
	h.clients = map[string]*WSClient{}
	h.mu.Unlock()

	for _, c := range clients {
		safeCloseBytes(c.send)
		_ = c.conn.Close()
	}
}

func (h *Hub) SendTo(clientId string, event WSEvent) {
	if clientId == "" {
		return
	}

	b, err := json.Marshal(event)
	if err != nil {
		log.Error("encode ws event", "type", event.Type, "err", err)
		return
	}

	// send under the read lock so Remove cannot close c.send mid-send
	h.mu.RLock()
	c := h.clients[clientId]
	sent := false
	if c != nil {
		select {
		case c.send <- b:
			sent = true
		default:
		}
	}
	h.mu.RUnlock()

	if c != nil && !sent {
		log.Warn("dropping slow ws client", "clientId", clientId)
		h.Remove(c)
	}
}
