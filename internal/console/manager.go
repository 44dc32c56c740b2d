// Package console is a development console that drives the skill over a
// WebSocket, one text turn at a time.
package console

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Conn is the part of a WebSocket connection the manager needs.
type Conn interface {
	Close(code websocket.StatusCode, reason string) error
}

type entry struct {
	sessionID string
	conn      Conn
}

// SessionManager keeps at most one console connection per user. A new
// connection replaces and closes the previous one, so requests for a user
// are never processed concurrently.
type SessionManager struct {
	mu     sync.RWMutex
	active map[string]entry
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{active: make(map[string]entry)}
}

// GetActive returns the active connection and its session id for a user.
func (m *SessionManager) GetActive(userID string) (string, Conn) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.active[userID]
	if !ok {
		return "", nil
	}
	return e.sessionID, e.conn
}

// Register makes conn the user's console connection.
func (m *SessionManager) Register(userID, sessionID string, conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.active[userID]; ok && existing.conn != conn {
		_ = existing.conn.Close(websocket.StatusPolicyViolation, "replaced by a newer console")
		slog.Info("Console session replaced", "user_id", userID, "session_id", existing.sessionID)
	}
	m.active[userID] = entry{sessionID: sessionID, conn: conn}
	slog.Info("Console session registered", "user_id", userID, "session_id", sessionID)
}

// Unregister removes conn if it is still the user's connection.
func (m *SessionManager) Unregister(userID, sessionID string, conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.active[userID]; ok && current.conn == conn && current.sessionID == sessionID {
		delete(m.active, userID)
		slog.Info("Console session unregistered", "user_id", userID, "session_id", sessionID)
	}
}

// CloseSession closes the user's console connection, if any.
func (m *SessionManager) CloseSession(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.active[userID]; ok {
		_ = e.conn.Close(websocket.StatusNormalClosure, "session closed")
		delete(m.active, userID)
		slog.Info("Console session closed", "user_id", userID, "session_id", e.sessionID)
	}
}

// Count returns the number of connected users.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}
