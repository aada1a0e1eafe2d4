package websocket

import (
	"sync"

	"github.com/Rierra/amongbot/internal/domain"
)

// Hub tracks every live connection on this server instance. Room-level
// fan-out normally rides NATS; the hub's own Broadcast channel is for
// local notices that must reach every client regardless of room, such as
// the shutdown announcement.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Connection]bool
	Register   chan *Connection
	Unregister chan *Connection
	Broadcast  chan domain.ChatMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Connection]bool),
		Broadcast:  make(chan domain.ChatMessage),
		Register:   make(chan *Connection),
		Unregister: make(chan *Connection),
	}
}

// Run starts the Hub's main loop for handling connections and broadcasts.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.addClient(conn)
		case conn := <-h.Unregister:
			h.removeClient(conn)
		case msg := <-h.Broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Close gracefully shuts down the Hub, closing all connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		close(conn.Send)
		conn.Ws.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) addClient(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *Hub) removeClient(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.clients[conn]; exists {
		delete(h.clients, conn)
		close(conn.Send)
	}
}

// broadcastMessage delivers msg to every local client, restricted to one
// room when msg.Room is set. Clients with a full send buffer are dropped.
func (h *Hub) broadcastMessage(msg domain.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if msg.Room != "" && conn.CurrentRoom() != msg.Room {
			continue
		}
		select {
		case conn.Send <- msg:
		default:
			delete(h.clients, conn)
			close(conn.Send)
		}
	}
}
