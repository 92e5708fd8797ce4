package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ClientConnection is one connected chat socket.
type ClientConnection struct {
	ID   string
	Conn *websocket.Conn

	mu        sync.Mutex
	sessionID string

	writeMu sync.Mutex
}

// SessionID is the chat session this socket last spoke in. Requests without
// a sessionId continue it.
func (c *ClientConnection) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *ClientConnection) setSessionID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
}

// WriteJSON serializes writes; gorilla connections allow one writer at a time.
func (c *ClientConnection) WriteJSON(v any, wait time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.Conn.SetWriteDeadline(time.Now().Add(wait))
	return c.Conn.WriteJSON(v)
}

// ConnectionManager manages all active WebSocket connections
type ConnectionManager struct {
	mu          sync.RWMutex
	connections map[string]*ClientConnection // connection id -> connection
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*ClientConnection),
	}
}

// AddConnection registers a new connection
func (m *ConnectionManager) AddConnection(conn *ClientConnection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.ID] = conn
}

// RemoveConnection removes a connection
func (m *ConnectionManager) RemoveConnection(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, id)
}

// GetSessionConnections returns the sockets currently attached to a chat
// session.
func (m *ConnectionManager) GetSessionConnections(sessionID string) []*ClientConnection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*ClientConnection{}
	for _, conn := range m.connections {
		if conn.SessionID() == sessionID {
			result = append(result, conn)
		}
	}
	return result
}

// GetConnectionCount returns the total number of active connections
func (m *ConnectionManager) GetConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// All returns a snapshot of every connection.
func (m *ConnectionManager) All() []*ClientConnection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*ClientConnection, 0, len(m.connections))
	for _, conn := range m.connections {
		result = append(result, conn)
	}
	return result
}
