package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"inkblog/model"
)

const writeWait = 5 * time.Second

var errUnknownClient = errors.New("unknown websocket client")

// wsClient wraps a WebSocket connection with its own mutex for thread-safe writes.
type wsClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// WSConnectionManager manages WebSocket connections for broadcasting.
type WSConnectionManager struct {
	log *zap.Logger

	mu      sync.RWMutex
	clients map[string]*wsClient
}

// NewWSConnectionManager creates a new WebSocket connection manager.
func NewWSConnectionManager(log *zap.Logger) *WSConnectionManager {
	return &WSConnectionManager{
		log:     log.Named("ws"),
		clients: make(map[string]*wsClient),
	}
}

// Add registers conn and returns its connection ID.
func (m *WSConnectionManager) Add(conn *websocket.Conn) string {
	id := uuid.NewString()
	m.mu.Lock()
	m.clients[id] = &wsClient{id: id, conn: conn}
	n := len(m.clients)
	m.mu.Unlock()
	m.log.Debug("Client connected", zap.String("id", id), zap.String("remote", conn.RemoteAddr().String()), zap.Int("clients", n))
	return id
}

// Remove drops the connection with the given ID and closes it.
func (m *WSConnectionManager) Remove(id string) {
	m.mu.Lock()
	c, ok := m.clients[id]
	delete(m.clients, id)
	m.mu.Unlock()
	if ok {
		c.conn.Close()
		m.log.Debug("Client disconnected", zap.String("id", id))
	}
}

// Count returns the number of open connections.
func (m *WSConnectionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Broadcast sends a message to all connected clients.
func (m *WSConnectionManager) Broadcast(msg model.Message) {
	m.mu.RLock()
	clients := make([]*wsClient, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	m.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(msg); err != nil {
			m.log.Debug("Dropping client", zap.String("id", c.id), zap.Error(err))
			m.Remove(c.id)
		}
	}
}

// WriteJSON safely writes JSON to the connection with the given ID.
func (m *WSConnectionManager) WriteJSON(id string, v any) error {
	m.mu.RLock()
	c, ok := m.clients[id]
	m.mu.RUnlock()
	if !ok {
		return errUnknownClient
	}
	return c.writeJSON(v)
}
