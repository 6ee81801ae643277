package services

import (
	"sync"

	"github.com/nossoespaco/server/pkg/logger"
)

// ChangeEvent is delivered to subscribed clients whenever a record in one
// of their collections is written.
type ChangeEvent struct {
	Collection string      `json:"collection"`
	Action     string      `json:"action"` // "create", "update", "delete"
	ID         string      `json:"id"`
	Doc        interface{} `json:"doc,omitempty"`
}

// ChangePublisher fans out change events to interested clients. Publishing
// is best-effort: a write never waits on, or fails because of, delivery.
type ChangePublisher interface {
	Publish(userIDs []string, event ChangeEvent)
}

// LiveConn is the part of a WebSocket connection the hub drives.
// *websocket.Conn satisfies it.
type LiveConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// LiveHub tracks one WebSocket connection per user and the collections each
// user has subscribed to.
type LiveHub struct {
	mu    sync.RWMutex
	conns map[string]LiveConn
	subs  map[string]map[string]bool
}

func NewLiveHub() *LiveHub {
	return &LiveHub{
		conns: make(map[string]LiveConn),
		subs:  make(map[string]map[string]bool),
	}
}

// Register attaches a connection for a user, replacing any previous one.
func (h *LiveHub) Register(userID string, conn LiveConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.conns[userID]; ok {
		existing.Close()
	}
	h.conns[userID] = conn
	h.subs[userID] = make(map[string]bool)

	logger.Log.WithField("userID", userID).Info("Live connection registered")
}

// Unregister drops the user's connection and subscriptions, but only when
// conn is still the registered one. A handler unwinding after its client
// reconnected must not tear down the replacement connection.
func (h *LiveHub) Unregister(userID string, conn LiveConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.conns[userID]; ok && current == conn {
		current.Close()
		delete(h.conns, userID)
		delete(h.subs, userID)
		logger.Log.WithField("userID", userID).Info("Live connection closed")
	}
}

// Subscribe replaces the set of collections the user listens to.
func (h *LiveHub) Subscribe(userID string, collections []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := make(map[string]bool, len(collections))
	for _, c := range collections {
		set[c] = true
	}
	h.subs[userID] = set
}

// Publish sends the event to each listed user that is connected and
// subscribed to the event's collection. Failed writes drop the connection.
func (h *LiveHub) Publish(userIDs []string, event ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, userID := range userIDs {
		conn, ok := h.conns[userID]
		if !ok || !h.subs[userID][event.Collection] {
			continue
		}
		if err := conn.WriteJSON(event); err != nil {
			logger.Log.WithError(err).WithField("userID", userID).Warn("Dropping live connection after failed write")
			conn.Close()
			delete(h.conns, userID)
			delete(h.subs, userID)
		}
	}
}
