package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/internal/models"
)

// clientBuffer is the per-client channel capacity
const clientBuffer = 10

// Hub manages Server-Sent Events connections for key change notifications
type Hub struct {
	clients map[chan []byte]struct{}
	mu      sync.RWMutex
}

// NewHub creates a new SSE hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[chan []byte]struct{}),
	}
}

// RegisterClient registers a new SSE client
func (h *Hub) RegisterClient() chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientChan := make(chan []byte, clientBuffer)
	h.clients[clientChan] = struct{}{}

	logrus.Debugf("SSE client registered (total clients: %d)", len(h.clients))
	return clientChan
}

// UnregisterClient unregisters an SSE client and closes its channel
func (h *Hub) UnregisterClient(clientChan chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[clientChan]; !ok {
		return
	}
	delete(h.clients, clientChan)
	close(clientChan)

	logrus.Debugf("SSE client unregistered (remaining clients: %d)", len(h.clients))
}

// Publish broadcasts the event to every connected client
func (h *Hub) Publish(_ context.Context, event models.KeyEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.Errorf("Failed to marshal key event for SSE: %v", err)
		return
	}
	h.broadcast([]byte(fmt.Sprintf("event: key\ndata: %s\n\n", payload)))
}

// SendHeartbeat sends a comment line to keep idle connections open
func (h *Hub) SendHeartbeat() {
	h.broadcast([]byte(fmt.Sprintf(": heartbeat %s\n\n", time.Now().Format(time.RFC3339))))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	// Non-blocking; a full client channel drops the message
	for clientChan := range h.clients {
		select {
		case clientChan <- message:
		default:
			logrus.Warn("SSE client channel full, skipping")
		}
	}
}
