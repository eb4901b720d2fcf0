package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/greenbean/storefront-backend/internal/notifier"
	"github.com/greenbean/storefront-backend/pkg/logger"
)

// Client is one open tab of a session. A session can have any number of
// tabs across any number of windows.
type Client struct {
	Hub       *Hub
	Conn      *Conn
	SessionID string
	TabID     string
	Send      chan []byte

	MessageCount  int       // messages received in the current second
	LastResetTime time.Time // last rate counter reset
	RateMu        sync.Mutex
}

// Hub tracks connected tabs per session and pushes cart updates to every
// tab except the one that caused them, mirroring how storage events skip
// the writing tab.
type Hub struct {
	clients map[string][]*Client // SessionID -> tabs

	register   chan *Client
	unregister chan *Client
	broadcast  chan *sessionMessage

	mu sync.RWMutex
}

type sessionMessage struct {
	SessionID string
	Message   []byte
	SourceTab string // excluded from delivery
}

// CartUpdateMessage is the push frame tabs receive on any cart change.
type CartUpdateMessage struct {
	Type      string          `json:"type"`
	Action    notifier.Action `json:"action"`
	CartItems interface{}     `json:"cart_items"`
	SourceTab string          `json:"source_tab,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *sessionMessage, 1024),
	}
}

// Run processes register/unregister/broadcast events. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"session_id": client.SessionID,
				"tab_id":     client.TabID,
				"total_tabs": len(h.clients[client.SessionID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.SessionID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				if len(newList) == 0 {
					delete(h.clients, client.SessionID)
				} else {
					h.clients[client.SessionID] = newList
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"session_id": client.SessionID,
				"tab_id":     client.TabID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[message.SessionID] {
				// The writing tab already has the new state.
				if message.SourceTab != "" && client.TabID == message.SourceTab {
					continue
				}
				select {
				case client.Send <- message.Message:
				default:
					// Send buffer full; drop the connection asynchronously.
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"session_id": client.SessionID,
						"tab_id":     client.TabID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PushCartEvent delivers a cart change to the session's other tabs. Wire
// this to the notifier bus so every mutation path reaches open pages.
func (h *Hub) PushCartEvent(ev notifier.Event) {
	frame := CartUpdateMessage{
		Type:      "cartUpdated",
		Action:    ev.Action,
		CartItems: ev.Items,
		SourceTab: ev.SourceTab,
	}
	data, err := json.Marshal(frame)
	if err != nil {
		logger.Error("Failed to marshal cart update", err, nil)
		return
	}

	select {
	case h.broadcast <- &sessionMessage{
		SessionID: ev.SessionID,
		Message:   data,
		SourceTab: ev.SourceTab,
	}:
	default:
		// A dropped push is repaired by the reconciliation pass.
		logger.Warn("Broadcast channel full, cart update dropped", map[string]interface{}{
			"session_id": ev.SessionID,
		})
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsSessionConnected reports whether any tab of the session is open.
func (h *Hub) IsSessionConnected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[sessionID]
	return ok
}

// ConnectedSessions lists the sessions with at least one open tab.
func (h *Hub) ConnectedSessions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessions := make([]string, 0, len(h.clients))
	for sessionID := range h.clients {
		sessions = append(sessions, sessionID)
	}
	return sessions
}

// HandleClientMessage rate-limits and parses a frame from a tab. The only
// client-initiated message is a reload request after a missed push.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"session_id": client.SessionID,
			"count":      count,
		})
		return
	}

	var msg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"session_id": client.SessionID,
			"error":      err.Error(),
		})
	}
}
