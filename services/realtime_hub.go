package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type WSClient struct {
	UserID string
	Conn   *websocket.Conn
}

// RealtimeHub fans meal and access events out to a user's open websocket
// sessions (the companion dashboard).
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) Broadcast(userID, kind string, payload any) {
	msg, _ := json.Marshal(map[string]any{
		"kind": kind,
		"at":   time.Now().UTC(),
		"data": payload,
	})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}

var (
	eventMu  sync.RWMutex
	eventHub *RealtimeHub
)

// InitEventDeps installs the hub used by EmitEvent. Services emit events
// unconditionally; with no hub installed the emit is a no-op, which keeps
// tests free of websocket plumbing.
func InitEventDeps(hub *RealtimeHub) {
	eventMu.Lock()
	eventHub = hub
	eventMu.Unlock()
}

func EmitEvent(userID, kind string, payload any) {
	eventMu.RLock()
	hub := eventHub
	eventMu.RUnlock()
	if hub != nil {
		hub.Broadcast(userID, kind, payload)
	}
}
