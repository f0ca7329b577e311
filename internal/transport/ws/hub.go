package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections of hosts watching their forms
type Hub struct {
	watchers map[string]map[*Connection]bool // formID -> connections

	mu  sync.RWMutex
	log *zap.Logger

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
}

// Connection represents a WebSocket connection
type Connection struct {
	FormID string
	HostID string
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to every watcher of a form
type BroadcastMessage struct {
	FormID  string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		watchers:   make(map[string]map[*Connection]bool),
		log:        log,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string, 16),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.FormID] == nil {
				h.watchers[conn.FormID] = make(map[*Connection]bool)
			}
			h.watchers[conn.FormID][conn] = true
			h.mu.Unlock()
			h.log.Info("Host watching form", zap.String("hostId", conn.HostID), zap.String("formId", conn.FormID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.FormID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.watchers, conn.FormID)
				}
				h.log.Info("Host stopped watching form", zap.String("hostId", conn.HostID), zap.String("formId", conn.FormID))
			}
			h.mu.Unlock()

		case formID := <-h.disconnect:
			h.mu.Lock()
			for conn := range h.watchers[formID] {
				close(conn.Send)
			}
			delete(h.watchers, formID)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Error("Failed to encode ws message", zap.Error(err))
				continue
			}
			h.mu.RLock()
			for conn := range h.watchers[msg.FormID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Watchers returns the number of connections watching a form
func (h *Hub) Watchers(formID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[formID])
}

// BroadcastToForm sends a message to every watcher of a form (implements service.Broadcaster)
func (h *Hub) BroadcastToForm(formID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("Failed to encode ws payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	h.broadcast <- &BroadcastMessage{
		FormID: formID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectForm closes every connection watching a form (implements service.Broadcaster)
func (h *Hub) DisconnectForm(formID string) {
	h.disconnect <- formID
}
