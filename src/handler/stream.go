package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"crashreporter/src/auth"
	"crashreporter/src/model"
)

// StreamHub fans stored reports out to websocket listeners (live tail for
// dashboards and operators). Slow clients are dropped rather than allowed
// to block ingestion.
type StreamHub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewStreamHub() *StreamHub {
	return &StreamHub{clients: make(map[*streamClient]struct{})}
}

// Broadcast queues a report to every connected listener.
func (h *StreamHub) Broadcast(report *model.Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		logger.WithError(err).Error("failed to encode report for stream")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Buffer full: the client stopped reading.
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// ClientCount reports the number of connected listeners.
func (h *StreamHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *StreamHub) register(client *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *StreamHub) unregister(client *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// StreamReportsHandler upgrades the connection and streams every report
// ingested after the upgrade, as JSON messages.
func StreamReportsHandler(hub *StreamHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := auth.GetCallerFromContext(r.Context())
		if !ok || caller == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.WithError(err).Error("failed to upgrade stream connection")
			return
		}

		client := &streamClient{conn: conn, send: make(chan []byte, 16)}
		hub.register(client)

		go client.writeLoop(hub)
		go client.readLoop(hub)
	}
}

func (c *streamClient) writeLoop(hub *StreamHub) {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			hub.unregister(c)
			return
		}
	}
}

// readLoop drains control frames and detects disconnects.
func (c *streamClient) readLoop(hub *StreamHub) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			hub.unregister(c)
			return
		}
	}
}
