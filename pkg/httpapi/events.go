package httpapi

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/voiceline/voiceline/pkg/store"
)

// eventHub fans call-record updates out to websocket subscribers.
// A subscriber that cannot be written to is dropped.
type eventHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	log   *slog.Logger
}

func newEventHub(log *slog.Logger) *eventHub {
	return &eventHub{conns: make(map[*websocket.Conn]struct{}), log: log}
}

func (h *eventHub) add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *eventHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
	c.Close()
}

// broadcast writes the record to every subscriber.
func (h *eventHub) broadcast(rec *store.CallRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteJSON(rec); err != nil {
			h.log.Debug("dropping events subscriber", "error", err)
			delete(h.conns, c)
			c.Close()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The feed is for the dashboard collaborator on another origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleEvents upgrades the connection and streams call-record updates
// until the client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	s.events.add(conn)

	// The feed is write-only; the read loop just detects disconnect.
	go func() {
		defer s.events.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
