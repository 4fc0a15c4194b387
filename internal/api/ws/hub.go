// Package ws pushes project snapshots to connected browsers so every
// open tab sees stage changes and generation flags as they happen.
package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/models"
)

type event struct {
	Type    string          `json:"type"`
	Project *models.Project `json:"project,omitempty"`
	ID      string          `json:"id,omitempty"`
}

// Hub fans project events out to all connected sockets. A client that
// cannot keep up is dropped rather than allowed to block the rest.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan event
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			// Cross-origin policy is enforced by the CORS layer.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan event),
	}
}

// ProjectChanged broadcasts a project snapshot.
func (h *Hub) ProjectChanged(p *models.Project) {
	h.broadcast(event{Type: "project_changed", Project: p})
}

// ProjectDeleted broadcasts a removal.
func (h *Hub) ProjectDeleted(id string) {
	h.broadcast(event{Type: "project_deleted", ID: id})
}

func (h *Hub) broadcast(ev event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("Dropping slow websocket client")
			close(ch)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// Serve upgrades the request and streams events until the client leaves.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade websocket", zap.Error(err))
		return
	}

	ch := make(chan event, 32)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	go h.writeLoop(conn, ch)
	h.readLoop(conn)
}

func (h *Hub) writeLoop(conn *websocket.Conn, ch chan event) {
	for ev := range ch {
		if err := conn.WriteJSON(ev); err != nil {
			break
		}
	}
	conn.Close()
}

// readLoop drains until the peer disconnects; inbound messages are not
// part of the protocol.
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	conn.Close()
}
