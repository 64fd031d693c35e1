// Package gateway fans computed indicator updates out to chart clients over
// WebSocket and exposes the registry over a small JSON API.
package gateway

import (
	"log/slog"
	"net/http"
	"sync"

	"chartengine/internal/metrics"
	"chartengine/internal/model"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard frontend is served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub manages connected WebSocket clients and fan-out of indicator updates.
type Hub struct {
	log  *slog.Logger
	prom *metrics.Metrics

	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger, prom *metrics.Metrics) *Hub {
	return &Hub{
		log:     log,
		prom:    prom,
		clients: make(map[*Client]bool),
	}
}

// Broadcast sends an indicator update to every client subscribed to its
// symbol. Slow clients drop messages instead of blocking the hot path.
func (h *Hub) Broadcast(u *model.IndicatorUpdate) {
	payload := u.JSON()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.wants(u.Symbol) {
			continue
		}
		select {
		case client.send <- payload:
		default:
			h.prom.WSDropped.Inc()
		}
	}
}

// HandleWS upgrades an HTTP connection and registers the client. The
// optional ?symbols=A,B query restricts which updates the client receives;
// clients can also change subscriptions over the socket.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", slog.String("err", err.Error()))
		return
	}

	client := newClient(conn, h, splitList(r.URL.Query().Get("symbols")))

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()
	h.prom.WSClients.Set(float64(count))

	h.log.Info("ws client connected", slog.Int("total", count))

	go client.writePump()
	go client.readPump()
}

// RemoveClient unregisters a client and closes its send queue.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.prom.WSClients.Set(float64(count))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
