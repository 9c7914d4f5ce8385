package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketCORSCheck
	},
}

// Client is one scoreboard connection.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	id         string
	tableID    string
	controller bool
	send       chan []byte
}

// Hub groups connected clients into table rooms.
type Hub struct {
	rooms map[string]map[*Client]struct{} // tableID -> clients
	mu    sync.RWMutex
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Register adds c to its table room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.tableID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.tableID] = room
	}
	room[c] = struct{}{}
	size := len(room)
	h.mu.Unlock()
	log.Printf("[WS] %s joined table %s (controller=%v, room_size=%d)", c.id, c.tableID, c.controller, size)
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.tableID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.tableID)
	}
	log.Printf("[WS] %s left table %s", c.id, c.tableID)
}

// RoomSize returns the number of clients watching tableID.
func (h *Hub) RoomSize(tableID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tableID])
}

// BroadcastToTable sends a message to every client of a table
func (h *Hub) BroadcastToTable(tableID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[tableID] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			log.Printf("[WS] send buffer full for %s on table %s, dropping message", client.id, tableID)
		}
	}
}

// CloseTable drops every client of tableID after flushing queued messages.
func (h *Hub) CloseTable(tableID string) {
	h.mu.Lock()
	room := h.rooms[tableID]
	delete(h.rooms, tableID)
	h.mu.Unlock()
	for client := range room {
		close(client.send)
	}
	if len(room) > 0 {
		log.Printf("[WS] closed table %s room (%d clients)", tableID, len(room))
	}
}

// WSMessage is the envelope of every client message.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// sendJSON queues a message for this client only.
func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.rooms[c.tableID][c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] send buffer full for %s, dropping message", c.id)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Room closed; best-effort close frame.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for %s: %v", c.id, err)
				return
			}
		}
	}
}

// readPump reads client messages until the connection drops.
func (c *Client) readPump(handle func(*Client, WSMessage)) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for %s: %v", c.id, err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("invalid message format")
			continue
		}
		handle(c, msg)
	}
}
