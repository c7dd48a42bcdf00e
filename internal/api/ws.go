package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"dispatch-service/internal/logging"
	"dispatch-service/internal/models"
)

const maxInboxClients = 50

// InboxManager fans inbox notifications out to connected dashboard clients.
// It implements alerts.InboxPusher.
type InboxManager struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

func NewInboxManager(logger *logging.Logger) *InboxManager {
	return &InboxManager{
		conns: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// The sweep and dashboard endpoints live on a private network.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve upgrades the request and holds the connection until the client
// goes away. Clients only receive; inbound frames are drained and dropped.
func (m *InboxManager) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	m.mu.Lock()
	if len(m.conns) >= maxInboxClients {
		m.mu.Unlock()
		m.logger.Warnf("Max inbox clients reached, rejecting connection")
		conn.Close()
		return
	}
	m.conns[conn] = true
	total := len(m.conns)
	m.mu.Unlock()
	m.logger.Infof("Inbox client connected (total: %d)", total)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	m.remove(conn)
}

// Push broadcasts one inbox notification to every connected client.
// A failed write drops that client; the rest still receive.
func (m *InboxManager) Push(n models.InboxNotification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.conns {
		if err := conn.WriteJSON(n); err != nil {
			m.logger.Errorf("Inbox push failed, dropping client: %v", err)
			conn.Close()
			delete(m.conns, conn)
		}
	}
}

func (m *InboxManager) remove(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conns[conn] {
		conn.Close()
		delete(m.conns, conn)
		m.logger.Infof("Inbox client disconnected (remaining: %d)", len(m.conns))
	}
}
