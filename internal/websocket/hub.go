package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"notesync/internal/dto"
	"notesync/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub fans note change messages out to every connected websocket client.
type Hub struct {
	// Registered clients keyed by connection id.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		clients:    make(map[uuid.UUID]*Client),
		logger:     log,
	}
}

// Run serves register and unregister requests until ctx is done, then drops
// every remaining client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.ID})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.ID})
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to all connected clients. Clients whose send buffer is
// full are disconnected.
func (h *Hub) Broadcast(msg dto.NoteChangedMessage) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "notes_changed",
		"data": msg,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode broadcast", map[string]interface{}{"error": err.Error()})
		return
	}

	var stale []*Client

	h.mu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"client_id": client.ID})
		h.unregister <- client
	}
}
